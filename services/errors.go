package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrInvalidDivision      = errors.New("division must be 'men' or 'women'")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrSameTeamGame         = errors.New("a team cannot play against itself")
	ErrGameDivisionMismatch = errors.New("both teams must belong to the game's division")
	ErrGameAlreadyCompleted = errors.New("game is already completed")
	ErrGameNotCompletable   = errors.New("game cannot be completed in its current status")
	ErrScoresInvalid        = errors.New("winner score must exceed loser score and both must be non-negative")
	ErrBoxScoreTeamInvalid  = errors.New("box score entry references a team not playing this game")
	ErrClaimedRoleInvalid   = errors.New("claimed role must be player, coach or staff")
	ErrClaimIncomplete      = errors.New("claimed team and roster person are required for this role")
	ErrDecisionInvalid      = errors.New("review decision must be approved or rejected")

	// Ошибки конфликтов
	ErrUserEmailConflict         = errors.New("email address is already in use")
	ErrAdminEmailConflict        = errors.New("admin email address is already in use")
	ErrTeamNameConflict          = errors.New("team name is already in use in this division")
	ErrJerseyConflict            = errors.New("jersey number is already taken in this team")
	ErrVerificationAlreadyOpen   = errors.New("a pending verification request already exists for this user")
	ErrVerificationAlreadyClosed = errors.New("verification request has already been reviewed")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrSelfDeletion       = errors.New("an admin cannot delete their own account")
	ErrMasterProtected    = errors.New("a master admin cannot be deleted or deactivated by others")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrRosterPersonNotFound = errors.New("roster person not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrVerificationNotFound = errors.New("verification request not found")
	ErrAdminNotFound        = errors.New("admin user not found")
	ErrNewsNotFound         = errors.New("news article not found")
)
