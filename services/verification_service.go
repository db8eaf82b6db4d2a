package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/storage"
)

type VerificationService interface {
	Submit(ctx context.Context, userID int, input SubmitVerificationInput, idImage io.Reader) (*models.VerificationRequest, error)
	ListPending(ctx context.Context) ([]models.VerificationRequest, error)
	// Review закрывает заявку ровно один раз. Права ревьюера проверяются здесь,
	// а не только на HTTP-слое. Все записи идут одной транзакцией.
	Review(ctx context.Context, reviewerID int, requestID int, input ReviewInput) (*models.VerificationRequest, error)
}

type SubmitVerificationInput struct {
	ClaimedRole     models.ClaimedRole `json:"claimed_role"`
	ClaimedTeamID   int                `json:"claimed_team_id"`
	ClaimedPersonID int                `json:"claimed_person_id"`
	ImageExt        string             `json:"-"`
	ImageType       string             `json:"-"`
}

type ReviewInput struct {
	Decision models.VerificationState `json:"decision"`
	Notes    string                   `json:"notes"`
}

type verificationService struct {
	db               *sql.DB
	verificationRepo repositories.VerificationRepository
	userRepo         repositories.UserRepository
	rosterRepo       repositories.RosterRepository
	teamRepo         repositories.TeamRepository
	adminRepo        repositories.AdminRepository
	auditRepo        repositories.AuditRepository
	uploader         storage.FileUploader
	clock            clockwork.Clock
}

func NewVerificationService(
	db *sql.DB,
	verificationRepo repositories.VerificationRepository,
	userRepo repositories.UserRepository,
	rosterRepo repositories.RosterRepository,
	teamRepo repositories.TeamRepository,
	adminRepo repositories.AdminRepository,
	auditRepo repositories.AuditRepository,
	uploader storage.FileUploader,
	clock clockwork.Clock,
) VerificationService {
	return &verificationService{
		db:               db,
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		rosterRepo:       rosterRepo,
		teamRepo:         teamRepo,
		adminRepo:        adminRepo,
		auditRepo:        auditRepo,
		uploader:         uploader,
		clock:            clock,
	}
}

func (s *verificationService) Submit(ctx context.Context, userID int, input SubmitVerificationInput, idImage io.Reader) (*models.VerificationRequest, error) {
	if !input.ClaimedRole.Valid() {
		return nil, ErrClaimedRoleInvalid
	}
	if input.ClaimedTeamID == 0 || input.ClaimedPersonID == 0 {
		return nil, ErrClaimIncomplete
	}

	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user.VerificationStatus != nil && user.VerificationStatus.Terminal() {
		return nil, ErrVerificationAlreadyClosed
	}
	if pending, err := s.verificationRepo.GetPendingByUser(ctx, userID); err == nil && pending != nil {
		return nil, ErrVerificationAlreadyOpen
	} else if err != nil && !errors.Is(err, repositories.ErrVerificationNotFound) {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}

	// Заявленная персона должна существовать в заявленной команде.
	switch input.ClaimedRole {
	case models.ClaimedRolePlayer:
		player, err := s.rosterRepo.GetPlayerByID(ctx, nil, input.ClaimedPersonID)
		if err != nil {
			if errors.Is(err, repositories.ErrRosterPlayerNotFound) {
				return nil, ErrRosterPersonNotFound
			}
			return nil, fmt.Errorf("failed to load claimed player: %w", err)
		}
		if player.TeamID != input.ClaimedTeamID {
			return nil, fmt.Errorf("%w: claimed player belongs to another team", ErrValidationFailed)
		}
	case models.ClaimedRoleCoach, models.ClaimedRoleStaff:
		staff, err := s.rosterRepo.GetStaffByID(ctx, nil, input.ClaimedPersonID)
		if err != nil {
			if errors.Is(err, repositories.ErrCoachStaffNotFound) {
				return nil, ErrRosterPersonNotFound
			}
			return nil, fmt.Errorf("failed to load claimed staff member: %w", err)
		}
		if staff.TeamID != input.ClaimedTeamID {
			return nil, fmt.Errorf("%w: claimed staff member belongs to another team", ErrValidationFailed)
		}
	}

	var imageKey *string
	if idImage != nil {
		key := objectKey("id-documents", input.ImageExt)
		if _, err := s.uploader.Upload(ctx, key, input.ImageType, idImage); err != nil {
			return nil, fmt.Errorf("failed to upload id document: %w", err)
		}
		imageKey = &key
	}

	req := &models.VerificationRequest{
		UserID:          userID,
		ClaimedRole:     input.ClaimedRole,
		ClaimedTeamID:   &input.ClaimedTeamID,
		ClaimedPersonID: &input.ClaimedPersonID,
		IDImageKey:      imageKey,
		Status:          models.VerificationPending,
		SubmittedAt:     s.clock.Now(),
	}
	if err := s.verificationRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}
	return req, nil
}

// ListPending обогащает заявки пользователем, командой и персоной из ростера,
// чтобы админка могла показать карточку без дополнительных запросов.
func (s *verificationService) ListPending(ctx context.Context) ([]models.VerificationRequest, error) {
	requests, err := s.verificationRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	for i := range requests {
		req := &requests[i]
		if user, err := s.userRepo.GetByID(ctx, nil, req.UserID); err == nil {
			user.PasswordHash = ""
			req.User = user
		}
		if req.ClaimedTeamID != nil {
			if team, err := s.teamRepo.GetByID(ctx, *req.ClaimedTeamID); err == nil {
				populateTeamMedia(team, s.uploader)
				req.ClaimedTeam = team
			}
		}
		if req.ClaimedPersonID != nil && req.ClaimedRole == models.ClaimedRolePlayer {
			if player, err := s.rosterRepo.GetPlayerByID(ctx, nil, *req.ClaimedPersonID); err == nil {
				populatePlayerMedia(player, s.uploader)
				req.Person = player
			}
		}
		if req.IDImageKey != nil && *req.IDImageKey != "" && s.uploader != nil {
			url := s.uploader.GetPublicURL(*req.IDImageKey)
			req.IDImageURL = &url
		}
	}
	return requests, nil
}

func (s *verificationService) Review(ctx context.Context, reviewerID int, requestID int, input ReviewInput) (*models.VerificationRequest, error) {
	if input.Decision != models.VerificationApproved && input.Decision != models.VerificationRejected {
		return nil, ErrDecisionInvalid
	}

	reviewer, err := s.adminRepo.GetByID(ctx, nil, reviewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrForbiddenOperation
		}
		return nil, fmt.Errorf("failed to load reviewer %d: %w", reviewerID, err)
	}
	if !reviewer.Active || !reviewer.Permissions.ReviewVerifications {
		return nil, ErrForbiddenOperation
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("verification %d: rollback failed: %v", requestID, rbErr)
		}
	}()

	req, err := s.reviewInTx(ctx, tx, reviewer, requestID, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit review of request %d: %w", requestID, err)
	}
	return req, nil
}

// reviewInTx выполняет все записи ревью через один executor.
// Вызывающий отвечает за begin/commit.
func (s *verificationService) reviewInTx(ctx context.Context, tx repositories.SQLExecutor, reviewer *models.AdminUser, requestID int, input ReviewInput) (*models.VerificationRequest, error) {
	req, err := s.verificationRepo.GetPendingForUpdate(ctx, tx, requestID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrVerificationNotFound):
			return nil, ErrVerificationNotFound
		case errors.Is(err, repositories.ErrVerificationNotPending):
			return nil, ErrVerificationAlreadyClosed
		}
		return nil, fmt.Errorf("failed to lock verification request %d: %w", requestID, err)
	}

	user, err := s.userRepo.GetByID(ctx, tx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load applicant %d: %w", req.UserID, err)
	}

	now := s.clock.Now()
	notes := strings.TrimSpace(input.Notes)
	if err := s.verificationRepo.MarkReviewed(ctx, tx, requestID, input.Decision, reviewer.ID, now, notes); err != nil {
		if errors.Is(err, repositories.ErrVerificationNotPending) {
			return nil, ErrVerificationAlreadyClosed
		}
		return nil, fmt.Errorf("failed to mark request %d reviewed: %w", requestID, err)
	}

	if input.Decision == models.VerificationApproved {
		// Привязка хранится с обеих сторон, но имена никогда не перетекают:
		// у игрока остаётся его имя из ростера, у аккаунта его имя регистрации.
		accountName := user.FirstName + " " + user.LastName
		var personName string

		switch req.ClaimedRole {
		case models.ClaimedRolePlayer:
			player, err := s.rosterRepo.GetPlayerByID(ctx, tx, *req.ClaimedPersonID)
			if err != nil {
				return nil, fmt.Errorf("failed to load claimed player: %w", err)
			}
			personName = player.Name
			if err := s.rosterRepo.LinkUser(ctx, tx, player.ID, user.ID, accountName, now); err != nil {
				return nil, fmt.Errorf("failed to link player %d: %w", player.ID, err)
			}
		case models.ClaimedRoleCoach, models.ClaimedRoleStaff:
			staff, err := s.rosterRepo.GetStaffByID(ctx, tx, *req.ClaimedPersonID)
			if err != nil {
				return nil, fmt.Errorf("failed to load claimed staff member: %w", err)
			}
			personName = staff.Name
			if err := s.rosterRepo.LinkStaffUser(ctx, tx, staff.ID, user.ID, accountName, now); err != nil {
				return nil, fmt.Errorf("failed to link staff member %d: %w", staff.ID, err)
			}
		}

		role := req.ClaimedRole
		if err := s.userRepo.ApplyReview(ctx, tx, user.ID, models.VerificationApproved, &role, req.ClaimedTeamID, req.ClaimedPersonID, &personName); err != nil {
			return nil, fmt.Errorf("failed to apply approval to user %d: %w", user.ID, err)
		}
	} else {
		// Отказ не оставляет следов привязки ни на аккаунте, ни в ростере.
		if err := s.userRepo.ApplyReview(ctx, tx, user.ID, models.VerificationRejected, nil, nil, nil, nil); err != nil {
			return nil, fmt.Errorf("failed to apply rejection to user %d: %w", user.ID, err)
		}
	}

	entry := newAuditEntry(models.AuditVerificationReviewed, reviewer, "verification_request", requestID, user.FirstName+" "+user.LastName, map[string]string{
		"decision":     string(input.Decision),
		"claimed_role": string(req.ClaimedRole),
	})
	if err := s.auditRepo.Append(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record review audit: %w", err)
	}

	req.Status = input.Decision
	req.ReviewerID = &reviewer.ID
	req.ReviewedAt = timePtr(now)
	if notes != "" {
		req.ReviewerNotes = &notes
	}
	return req, nil
}
