package models

import "time"

type VerificationState string

const (
	VerificationPending  VerificationState = "pending"
	VerificationApproved VerificationState = "approved"
	VerificationRejected VerificationState = "rejected"
)

// Terminal reports whether the state admits no further transitions.
func (s VerificationState) Terminal() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// ClaimedRole — роль, которую пользователь заявляет при верификации.
type ClaimedRole string

const (
	ClaimedRolePlayer ClaimedRole = "player"
	ClaimedRoleCoach  ClaimedRole = "coach"
	ClaimedRoleStaff  ClaimedRole = "staff"
)

func (r ClaimedRole) Valid() bool {
	return r == ClaimedRolePlayer || r == ClaimedRoleCoach || r == ClaimedRoleStaff
}

// User — аккаунт болельщика/игрока. FirstName и LastName задаются при регистрации
// и никогда не перезаписываются данными ростера, даже после привязки к игроку.
type User struct {
	ID           int    `json:"id" db:"id"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	PasswordHash string `json:"-" db:"password_hash"`

	Role   *ClaimedRole `json:"role,omitempty" db:"role"`
	TeamID *int         `json:"team_id,omitempty" db:"team_id"`

	VerificationStatus *VerificationState `json:"verification_status,omitempty" db:"verification_status"`

	// Обратная сторона привязки: заполняется только при одобрении верификации.
	LinkedPlayerID   *int    `json:"linked_player_id,omitempty" db:"linked_player_id"`
	LinkedPlayerName *string `json:"linked_player_name,omitempty" db:"linked_player_name"`

	// Fan preferences, free-form.
	FavoriteTeamID  *int    `json:"favorite_team_id,omitempty" db:"favorite_team_id"`
	FavoriteAthlete *string `json:"favorite_athlete,omitempty" db:"favorite_athlete"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
