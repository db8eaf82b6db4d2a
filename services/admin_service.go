package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

type AdminService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AdminUser, error)
	GetByID(ctx context.Context, adminID int) (*models.AdminUser, error)
	List(ctx context.Context, actorID int) ([]models.AdminUser, error)

	// Управление аккаунтами админов доступно только мастеру; проверка живёт
	// здесь, а не только в HTTP-слое.
	Create(ctx context.Context, actorID int, input CreateAdminInput) (*models.AdminUser, error)
	UpdateRoles(ctx context.Context, actorID, adminID int, roles []models.AdminRole) (*models.AdminUser, error)
	SetActive(ctx context.Context, actorID, adminID int, active bool) error
	Delete(ctx context.Context, actorID, adminID int) error

	ChangePassword(ctx context.Context, adminID int, currentPassword, newPassword string) error

	GetDashboardStats(ctx context.Context) (models.DashboardStats, error)
	ListAuditLog(ctx context.Context, actorID int, filter models.AuditLogFilter) ([]models.AuditLogEntry, int, error)
}

type CreateAdminInput struct {
	Email    string             `json:"email"`
	FullName string             `json:"full_name"`
	Password string             `json:"password"`
	Roles    []models.AdminRole `json:"roles"`
}

type adminService struct {
	adminRepo        repositories.AdminRepository
	auditRepo        repositories.AuditRepository
	teamRepo         repositories.TeamRepository
	gameRepo         repositories.GameRepository
	userRepo         repositories.UserRepository
	verificationRepo repositories.VerificationRepository
	newsRepo         repositories.NewsRepository
}

func NewAdminService(
	adminRepo repositories.AdminRepository,
	auditRepo repositories.AuditRepository,
	teamRepo repositories.TeamRepository,
	gameRepo repositories.GameRepository,
	userRepo repositories.UserRepository,
	verificationRepo repositories.VerificationRepository,
	newsRepo repositories.NewsRepository,
) AdminService {
	return &adminService{
		adminRepo:        adminRepo,
		auditRepo:        auditRepo,
		teamRepo:         teamRepo,
		gameRepo:         gameRepo,
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		newsRepo:         newsRepo,
	}
}

// requireMaster загружает актора и проверяет, что он активный мастер.
func (s *adminService) requireMaster(ctx context.Context, actorID int) (*models.AdminUser, error) {
	actor, err := s.adminRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrForbiddenOperation
		}
		return nil, fmt.Errorf("failed to load acting admin %d: %w", actorID, err)
	}
	if !actor.Active || !actor.Permissions.ManageAdmins {
		return nil, ErrForbiddenOperation
	}
	return actor, nil
}

func (s *adminService) Login(ctx context.Context, creds models.Credentials) (*models.AdminUser, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(creds.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}
	if !admin.Active {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	admin.PasswordHash = ""
	return admin, nil
}

func (s *adminService) GetByID(ctx context.Context, adminID int) (*models.AdminUser, error) {
	admin, err := s.adminRepo.GetByID(ctx, nil, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to load admin %d: %w", adminID, err)
	}
	admin.PasswordHash = ""
	return admin, nil
}

func (s *adminService) List(ctx context.Context, actorID int) ([]models.AdminUser, error) {
	if _, err := s.requireMaster(ctx, actorID); err != nil {
		return nil, err
	}
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	for i := range admins {
		admins[i].PasswordHash = ""
	}
	return admins, nil
}

func (s *adminService) Create(ctx context.Context, actorID int, input CreateAdminInput) (*models.AdminUser, error) {
	actor, err := s.requireMaster(ctx, actorID)
	if err != nil {
		return nil, err
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidationFailed)
	}
	if input.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Roles) == 0 {
		return nil, fmt.Errorf("%w: at least one role is required", ErrValidationFailed)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	admin := &models.AdminUser{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hashed),
		Roles:        input.Roles,
		Permissions:  models.MergePermissions(input.Roles),
		Active:       true,
		// Новый админ обязан сменить временный пароль при первом входе.
		FirstLogin: true,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrAdminEmailConflict) {
			return nil, ErrAdminEmailConflict
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	entry := newAuditEntry(models.AuditAdminCreated, actor, "admin", admin.ID, admin.FullName, map[string]string{
		"roles": rolesString(admin.Roles),
	})
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to record admin creation audit: %w", err)
	}

	admin.PasswordHash = ""
	return admin, nil
}

func (s *adminService) UpdateRoles(ctx context.Context, actorID, adminID int, roles []models.AdminRole) (*models.AdminUser, error) {
	actor, err := s.requireMaster(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: at least one role is required", ErrValidationFailed)
	}

	admin, err := s.adminRepo.GetByID(ctx, nil, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to load admin %d: %w", adminID, err)
	}
	// Чужого мастера трогать нельзя.
	if admin.HasRole(models.RoleMaster) && admin.ID != actor.ID {
		return nil, ErrMasterProtected
	}

	permissions := models.MergePermissions(roles)
	if err := s.adminRepo.UpdateRoles(ctx, adminID, roles, permissions); err != nil {
		return nil, fmt.Errorf("failed to update roles for admin %d: %w", adminID, err)
	}

	entry := newAuditEntry(models.AuditAdminRolesUpdated, actor, "admin", admin.ID, admin.FullName, map[string]string{
		"roles": rolesString(roles),
	})
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to record roles update audit: %w", err)
	}

	admin.Roles = roles
	admin.Permissions = permissions
	admin.PasswordHash = ""
	return admin, nil
}

func (s *adminService) SetActive(ctx context.Context, actorID, adminID int, active bool) error {
	actor, err := s.requireMaster(ctx, actorID)
	if err != nil {
		return err
	}

	admin, err := s.adminRepo.GetByID(ctx, nil, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to load admin %d: %w", adminID, err)
	}
	if !active {
		if admin.ID == actor.ID {
			return ErrSelfDeletion
		}
		if admin.HasRole(models.RoleMaster) {
			return ErrMasterProtected
		}
	}

	if err := s.adminRepo.SetActive(ctx, adminID, active); err != nil {
		return fmt.Errorf("failed to change active flag for admin %d: %w", adminID, err)
	}

	if !active {
		entry := newAuditEntry(models.AuditAdminDeactivated, actor, "admin", admin.ID, admin.FullName, nil)
		if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
			return fmt.Errorf("failed to record deactivation audit: %w", err)
		}
	}
	return nil
}

func (s *adminService) Delete(ctx context.Context, actorID, adminID int) error {
	actor, err := s.requireMaster(ctx, actorID)
	if err != nil {
		return err
	}

	admin, err := s.adminRepo.GetByID(ctx, nil, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to load admin %d: %w", adminID, err)
	}
	if admin.ID == actor.ID {
		return ErrSelfDeletion
	}
	if admin.HasRole(models.RoleMaster) {
		return ErrMasterProtected
	}

	if err := s.adminRepo.Delete(ctx, adminID); err != nil {
		return fmt.Errorf("failed to delete admin %d: %w", adminID, err)
	}

	entry := newAuditEntry(models.AuditAdminDeleted, actor, "admin", admin.ID, admin.FullName, nil)
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return fmt.Errorf("failed to record deletion audit: %w", err)
	}
	return nil
}

func (s *adminService) ChangePassword(ctx context.Context, adminID int, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	admin, err := s.adminRepo.GetByID(ctx, nil, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to load admin %d: %w", adminID, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	if err := s.adminRepo.UpdatePassword(ctx, adminID, string(hashed), false); err != nil {
		return fmt.Errorf("failed to update password for admin %d: %w", adminID, err)
	}

	entry := newAuditEntry(models.AuditAdminPasswordChanged, admin, "admin", admin.ID, admin.FullName, nil)
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return fmt.Errorf("failed to record password change audit: %w", err)
	}
	return nil
}

func (s *adminService) GetDashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	completed := models.GameStatusCompleted

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TeamsTotal, err = s.teamRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.GamesTotal, err = s.gameRepo.Count(gCtx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedGames, err = s.gameRepo.Count(gCtx, &completed)
		return err
	})
	g.Go(func() (err error) {
		stats.UsersTotal, err = s.userRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingVerifications, err = s.verificationRepo.CountPending(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.PublishedNews, err = s.newsRepo.CountPublished(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to collect dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *adminService) ListAuditLog(ctx context.Context, actorID int, filter models.AuditLogFilter) ([]models.AuditLogEntry, int, error) {
	actor, err := s.adminRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, 0, ErrForbiddenOperation
		}
		return nil, 0, fmt.Errorf("failed to load acting admin %d: %w", actorID, err)
	}
	if !actor.Active || !actor.Permissions.ViewAuditLogs {
		return nil, 0, ErrForbiddenOperation
	}

	entries, total, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit log: %w", err)
	}
	return entries, total, nil
}

func rolesString(roles []models.AdminRole) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
