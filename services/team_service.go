package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/storage"
	"golang.org/x/sync/errgroup"
)

type TeamService interface {
	CreateTeam(ctx context.Context, actor *models.AdminUser, input TeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, actor *models.AdminUser, teamID int, input TeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, teamID int) error
	GetTeam(ctx context.Context, teamID int) (*models.Team, error)
	ListTeams(ctx context.Context, division *models.Division) ([]models.Team, error)
	UploadTeamLogo(ctx context.Context, teamID int, contentType, ext string, file io.Reader) (*models.Team, error)

	AddPlayer(ctx context.Context, teamID int, input PlayerInput) (*models.RosterPlayer, error)
	UpdatePlayer(ctx context.Context, playerID int, input PlayerInput) (*models.RosterPlayer, error)
	RemovePlayer(ctx context.Context, playerID int) error
	UploadPlayerPhoto(ctx context.Context, playerID int, contentType, ext string, file io.Reader) (*models.RosterPlayer, error)

	AddStaff(ctx context.Context, teamID int, input StaffInput) (*models.CoachStaff, error)
	UpdateStaff(ctx context.Context, staffID int, input StaffInput) (*models.CoachStaff, error)
	RemoveStaff(ctx context.Context, staffID int) error
}

type TeamInput struct {
	Name           string          `json:"name"`
	City           string          `json:"city"`
	Division       models.Division `json:"division"`
	PrimaryColor   string          `json:"primary_color"`
	SecondaryColor string          `json:"secondary_color"`
}

type PlayerInput struct {
	Name        string  `json:"name"`
	Jersey      int     `json:"jersey"`
	Position    string  `json:"position"`
	HeightCM    int     `json:"height_cm"`
	Nationality string  `json:"nationality"`
	PPG         float64 `json:"ppg"`
	RPG         float64 `json:"rpg"`
	APG         float64 `json:"apg"`
	BPG         float64 `json:"bpg"`
	SPG         float64 `json:"spg"`
}

type StaffInput struct {
	Name string           `json:"name"`
	Role models.StaffRole `json:"role"`
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	rosterRepo repositories.RosterRepository
	auditRepo  repositories.AuditRepository
	uploader   storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	rosterRepo repositories.RosterRepository,
	auditRepo repositories.AuditRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		rosterRepo: rosterRepo,
		auditRepo:  auditRepo,
		uploader:   uploader,
	}
}

func (s *teamService) validateTeamInput(input TeamInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTeamNameRequired
	}
	if !input.Division.Valid() {
		return ErrInvalidDivision
	}
	return nil
}

func (s *teamService) CreateTeam(ctx context.Context, actor *models.AdminUser, input TeamInput) (*models.Team, error) {
	if err := s.validateTeamInput(input); err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:           strings.TrimSpace(input.Name),
		City:           strings.TrimSpace(input.City),
		Division:       input.Division,
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	entry := newAuditEntry(models.AuditTeamCreated, actor, "team", team.ID, team.Name, map[string]string{
		"division": string(team.Division),
	})
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to record team creation audit: %w", err)
	}
	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, actor *models.AdminUser, teamID int, input TeamInput) (*models.Team, error) {
	if err := s.validateTeamInput(input); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	team.Name = strings.TrimSpace(input.Name)
	team.City = strings.TrimSpace(input.City)
	team.Division = input.Division
	team.PrimaryColor = input.PrimaryColor
	team.SecondaryColor = input.SecondaryColor

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}

	entry := newAuditEntry(models.AuditTeamUpdated, actor, "team", team.ID, team.Name, nil)
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to record team update audit: %w", err)
	}

	populateTeamMedia(team, s.uploader)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID int) error {
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	return nil
}

// GetTeam возвращает команду вместе с составом и тренерским штабом.
func (s *teamService) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roster, err := s.rosterRepo.ListByTeamID(gCtx, teamID)
		if err != nil {
			return fmt.Errorf("failed to load roster for team %d: %w", teamID, err)
		}
		team.Roster = roster
		return nil
	})
	g.Go(func() error {
		staff, err := s.rosterRepo.ListStaffByTeamID(gCtx, teamID)
		if err != nil {
			return fmt.Errorf("failed to load staff for team %d: %w", teamID, err)
		}
		team.Staff = staff
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	populateTeamMedia(team, s.uploader)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, division *models.Division) ([]models.Team, error) {
	if division != nil && !division.Valid() {
		return nil, ErrInvalidDivision
	}
	teams, err := s.teamRepo.List(ctx, division)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		populateTeamMedia(&teams[i], s.uploader)
	}
	return teams, nil
}

func (s *teamService) UploadTeamLogo(ctx context.Context, teamID int, contentType, ext string, file io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	oldKey := team.LogoKey
	key := objectKey("team-logos", ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}
	// Старый объект чистим best-effort, запись уже указывает на новый.
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &key
	populateTeamMedia(team, s.uploader)
	return team, nil
}

func (s *teamService) AddPlayer(ctx context.Context, teamID int, input PlayerInput) (*models.RosterPlayer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if input.Jersey < 0 || input.Jersey > 99 {
		return nil, fmt.Errorf("%w: jersey number must be between 0 and 99", ErrValidationFailed)
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to check team %d: %w", teamID, err)
	}

	player := &models.RosterPlayer{
		TeamID:      teamID,
		Name:        strings.TrimSpace(input.Name),
		Jersey:      input.Jersey,
		Position:    input.Position,
		HeightCM:    input.HeightCM,
		Nationality: input.Nationality,
		PPG:         input.PPG,
		RPG:         input.RPG,
		APG:         input.APG,
		BPG:         input.BPG,
		SPG:         input.SPG,
	}
	if err := s.rosterRepo.CreatePlayer(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrRosterJerseyConflict) {
			return nil, ErrJerseyConflict
		}
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	return player, nil
}

func (s *teamService) UpdatePlayer(ctx context.Context, playerID int, input PlayerInput) (*models.RosterPlayer, error) {
	player, err := s.rosterRepo.GetPlayerByID(ctx, nil, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRosterPlayerNotFound) {
			return nil, ErrRosterPersonNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	if strings.TrimSpace(input.Name) != "" {
		player.Name = strings.TrimSpace(input.Name)
	}
	player.Jersey = input.Jersey
	player.Position = input.Position
	player.HeightCM = input.HeightCM
	player.Nationality = input.Nationality
	player.PPG = input.PPG
	player.RPG = input.RPG
	player.APG = input.APG
	player.BPG = input.BPG
	player.SPG = input.SPG

	if err := s.rosterRepo.UpdatePlayer(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrRosterJerseyConflict) {
			return nil, ErrJerseyConflict
		}
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}

	populatePlayerMedia(player, s.uploader)
	return player, nil
}

func (s *teamService) RemovePlayer(ctx context.Context, playerID int) error {
	if err := s.rosterRepo.DeletePlayer(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrRosterPlayerNotFound) {
			return ErrRosterPersonNotFound
		}
		return fmt.Errorf("failed to remove player %d: %w", playerID, err)
	}
	return nil
}

func (s *teamService) UploadPlayerPhoto(ctx context.Context, playerID int, contentType, ext string, file io.Reader) (*models.RosterPlayer, error) {
	player, err := s.rosterRepo.GetPlayerByID(ctx, nil, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRosterPlayerNotFound) {
			return nil, ErrRosterPersonNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	oldKey := player.PhotoKey
	key := objectKey("player-photos", ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}
	if err := s.rosterRepo.UpdatePlayerPhotoKey(ctx, playerID, &key); err != nil {
		return nil, fmt.Errorf("failed to store player photo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	player.PhotoKey = &key
	populatePlayerMedia(player, s.uploader)
	return player, nil
}

func (s *teamService) AddStaff(ctx context.Context, teamID int, input StaffInput) (*models.CoachStaff, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: staff name is required", ErrValidationFailed)
	}
	switch input.Role {
	case models.StaffRoleHeadCoach, models.StaffRoleAssistant, models.StaffRoleStaff:
	default:
		return nil, fmt.Errorf("%w: unknown staff role %q", ErrValidationFailed, input.Role)
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to check team %d: %w", teamID, err)
	}

	staff := &models.CoachStaff{
		TeamID: teamID,
		Name:   strings.TrimSpace(input.Name),
		Role:   input.Role,
	}
	if err := s.rosterRepo.CreateStaff(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to add staff member: %w", err)
	}
	return staff, nil
}

func (s *teamService) UpdateStaff(ctx context.Context, staffID int, input StaffInput) (*models.CoachStaff, error) {
	staff, err := s.rosterRepo.GetStaffByID(ctx, nil, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrCoachStaffNotFound) {
			return nil, ErrRosterPersonNotFound
		}
		return nil, fmt.Errorf("failed to load staff member %d: %w", staffID, err)
	}

	if strings.TrimSpace(input.Name) != "" {
		staff.Name = strings.TrimSpace(input.Name)
	}
	if input.Role != "" {
		staff.Role = input.Role
	}

	if err := s.rosterRepo.UpdateStaff(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to update staff member %d: %w", staffID, err)
	}

	populateStaffMedia(staff, s.uploader)
	return staff, nil
}

func (s *teamService) RemoveStaff(ctx context.Context, staffID int) error {
	if err := s.rosterRepo.DeleteStaff(ctx, staffID); err != nil {
		if errors.Is(err, repositories.ErrCoachStaffNotFound) {
			return ErrRosterPersonNotFound
		}
		return fmt.Errorf("failed to remove staff member %d: %w", staffID, err)
	}
	return nil
}
