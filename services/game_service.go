package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/landrytower/liprobakin/league"
	"github.com/landrytower/liprobakin/live"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/storage"
	"golang.org/x/sync/errgroup"
)

type GameService interface {
	ScheduleGame(ctx context.Context, actor *models.AdminUser, input ScheduleGameInput) (*models.Game, error)
	GenerateSeasonSchedule(ctx context.Context, actor *models.AdminUser, input SeasonScheduleInput) ([]models.Game, error)
	UpdateGame(ctx context.Context, gameID int, input ScheduleGameInput) (*models.Game, error)
	StartGame(ctx context.Context, gameID int) (*models.Game, error)
	CompleteGame(ctx context.Context, actor *models.AdminUser, gameID int, input CompleteGameInput) (*models.Game, error)
	CancelGame(ctx context.Context, actor *models.AdminUser, gameID int) error
	GetGame(ctx context.Context, gameID int) (*models.Game, error)
	ListGames(ctx context.Context, filter repositories.GameFilter) ([]models.Game, error)
}

type ScheduleGameInput struct {
	HomeTeamID int             `json:"home_team_id"`
	AwayTeamID int             `json:"away_team_id"`
	Division   models.Division `json:"division"`
	Venue      string          `json:"venue"`
	StartsAt   time.Time       `json:"starts_at"`
}

type SeasonScheduleInput struct {
	Division     models.Division `json:"division"`
	FirstTipoff  time.Time       `json:"first_tipoff"`
	SlotInterval time.Duration   `json:"slot_interval"`
	Venue        string          `json:"venue"`
	Rounds       int             `json:"rounds"`
}

// CompleteGameInput несёт итог и построчный протокол игры.
type CompleteGameInput struct {
	WinnerTeamID int                 `json:"winner_team_id"`
	WinnerScore  int                 `json:"winner_score"`
	LoserScore   int                 `json:"loser_score"`
	PlayerStats  []models.PlayerStat `json:"player_stats"`
}

type gameService struct {
	db        *sql.DB
	gameRepo  repositories.GameRepository
	teamRepo  repositories.TeamRepository
	auditRepo repositories.AuditRepository
	uploader  storage.FileUploader
	hub       *live.Hub
	clock     clockwork.Clock
}

func NewGameService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	auditRepo repositories.AuditRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	clock clockwork.Clock,
) GameService {
	return &gameService{
		db:        db,
		gameRepo:  gameRepo,
		teamRepo:  teamRepo,
		auditRepo: auditRepo,
		uploader:  uploader,
		hub:       hub,
		clock:     clock,
	}
}

func (s *gameService) validateScheduleInput(ctx context.Context, input ScheduleGameInput) error {
	if !input.Division.Valid() {
		return ErrInvalidDivision
	}
	if input.HomeTeamID == input.AwayTeamID {
		return ErrSameTeamGame
	}
	if strings.TrimSpace(input.Venue) == "" {
		return fmt.Errorf("%w: venue is required", ErrValidationFailed)
	}
	if input.StartsAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrValidationFailed)
	}
	if input.StartsAt.Before(s.clock.Now()) {
		return fmt.Errorf("%w: start time is in the past", ErrValidationFailed)
	}

	teams, err := s.teamRepo.ListByIDs(ctx, []int{input.HomeTeamID, input.AwayTeamID})
	if err != nil {
		return fmt.Errorf("failed to load game teams: %w", err)
	}
	if len(teams) != 2 {
		return ErrTeamNotFound
	}
	for _, t := range teams {
		if t.Division != input.Division {
			return ErrGameDivisionMismatch
		}
	}
	return nil
}

func (s *gameService) ScheduleGame(ctx context.Context, actor *models.AdminUser, input ScheduleGameInput) (*models.Game, error) {
	if err := s.validateScheduleInput(ctx, input); err != nil {
		return nil, err
	}

	game := &models.Game{
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		Division:   input.Division,
		Venue:      strings.TrimSpace(input.Venue),
		StartsAt:   input.StartsAt,
		Status:     models.GameStatusScheduled,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrGameTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to schedule game: %w", err)
	}

	entry := newAuditEntry(models.AuditGameScheduled, actor, "game", game.ID, "", map[string]string{
		"division": string(game.Division),
		"venue":    game.Venue,
	})
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to record scheduling audit: %w", err)
	}
	return game, nil
}

// GenerateSeasonSchedule строит круговой календарь дивизиона и сохраняет все
// игры одной транзакцией.
func (s *gameService) GenerateSeasonSchedule(ctx context.Context, actor *models.AdminUser, input SeasonScheduleInput) ([]models.Game, error) {
	if !input.Division.Valid() {
		return nil, ErrInvalidDivision
	}
	division := input.Division
	teams, err := s.teamRepo.List(ctx, &division)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for division %s: %w", division, err)
	}

	games, err := league.GenerateRoundRobin(league.ScheduleParams{
		Teams:        teams,
		Division:     division,
		FirstTipoff:  input.FirstTipoff,
		SlotInterval: input.SlotInterval,
		Venue:        input.Venue,
		Rounds:       input.Rounds,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if err := s.gameRepo.BatchCreate(ctx, games); err != nil {
		return nil, fmt.Errorf("failed to persist season schedule: %w", err)
	}

	entry := newAuditEntry(models.AuditGameScheduled, actor, "season", 0, string(division), map[string]string{
		"games": fmt.Sprintf("%d", len(games)),
	})
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to record season schedule audit: %w", err)
	}
	return games, nil
}

func (s *gameService) UpdateGame(ctx context.Context, gameID int, input ScheduleGameInput) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if game.Status != models.GameStatusScheduled {
		return nil, ErrGameNotCompletable
	}
	if err := s.validateScheduleInput(ctx, input); err != nil {
		return nil, err
	}

	game.HomeTeamID = input.HomeTeamID
	game.AwayTeamID = input.AwayTeamID
	game.Division = input.Division
	game.Venue = strings.TrimSpace(input.Venue)
	game.StartsAt = input.StartsAt

	if err := s.gameRepo.Update(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game %d: %w", gameID, err)
	}
	return game, nil
}

// StartGame переводит игру в live и оповещает подписчиков комнаты.
func (s *gameService) StartGame(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if game.Status != models.GameStatusScheduled {
		return nil, ErrGameNotCompletable
	}

	if err := s.gameRepo.SetStatus(ctx, gameID, models.GameStatusLive); err != nil {
		return nil, fmt.Errorf("failed to mark game %d live: %w", gameID, err)
	}
	game.Status = models.GameStatusLive

	s.broadcast(live.EventGameUpdated, game)
	return game, nil
}

// CompleteGame фиксирует исход и протокол одной транзакцией: запись результата,
// замена строк протокола и запись аудита коммитятся атомарно.
func (s *gameService) CompleteGame(ctx context.Context, actor *models.AdminUser, gameID int, input CompleteGameInput) (*models.Game, error) {
	if input.WinnerScore <= input.LoserScore || input.LoserScore < 0 {
		return nil, ErrScoresInvalid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("game %d: rollback failed: %v", gameID, rbErr)
		}
	}()

	game, err := s.gameRepo.GetByID(ctx, tx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	switch game.Status {
	case models.GameStatusScheduled, models.GameStatusLive:
	case models.GameStatusCompleted:
		return nil, ErrGameAlreadyCompleted
	default:
		return nil, ErrGameNotCompletable
	}

	var loserTeamID int
	switch input.WinnerTeamID {
	case game.HomeTeamID:
		loserTeamID = game.AwayTeamID
	case game.AwayTeamID:
		loserTeamID = game.HomeTeamID
	default:
		return nil, ErrBoxScoreTeamInvalid
	}

	for i := range input.PlayerStats {
		ps := &input.PlayerStats[i]
		if ps.TeamID != game.HomeTeamID && ps.TeamID != game.AwayTeamID {
			return nil, ErrBoxScoreTeamInvalid
		}
		ps.GameID = gameID
	}

	if err := s.gameRepo.Complete(ctx, tx, gameID, input.WinnerTeamID, loserTeamID, input.WinnerScore, input.LoserScore); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameAlreadyCompleted
		}
		return nil, fmt.Errorf("failed to record result for game %d: %w", gameID, err)
	}
	if err := s.gameRepo.ReplacePlayerStats(ctx, tx, gameID, input.PlayerStats); err != nil {
		return nil, fmt.Errorf("failed to store box score for game %d: %w", gameID, err)
	}

	entry := newAuditEntry(models.AuditGameCompleted, actor, "game", gameID, "", map[string]string{
		"winner_team_id": fmt.Sprintf("%d", input.WinnerTeamID),
		"score":          fmt.Sprintf("%d:%d", input.WinnerScore, input.LoserScore),
	})
	if err := s.auditRepo.Append(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record completion audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game completion: %w", err)
	}

	game.Status = models.GameStatusCompleted
	game.WinnerTeamID = &input.WinnerTeamID
	game.LoserTeamID = &loserTeamID
	game.WinnerScore = &input.WinnerScore
	game.LoserScore = &input.LoserScore
	game.PlayerStats = input.PlayerStats

	s.broadcast(live.EventGameCompleted, game)
	return game, nil
}

func (s *gameService) CancelGame(ctx context.Context, actor *models.AdminUser, gameID int) error {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if game.Status == models.GameStatusCompleted {
		return ErrGameAlreadyCompleted
	}

	if err := s.gameRepo.SetStatus(ctx, gameID, models.GameStatusCanceled); err != nil {
		return fmt.Errorf("failed to cancel game %d: %w", gameID, err)
	}
	game.Status = models.GameStatusCanceled

	entry := newAuditEntry(models.AuditGameCanceled, actor, "game", gameID, "", nil)
	if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
		return fmt.Errorf("failed to record cancellation audit: %w", err)
	}

	s.broadcast(live.EventGameCanceled, game)
	return nil
}

// GetGame отдаёт полную карточку игры: команды, протокол и командные итоги.
func (s *gameService) GetGame(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.teamRepo.ListByIDs(gCtx, []int{game.HomeTeamID, game.AwayTeamID})
		if err != nil {
			return fmt.Errorf("failed to load teams for game %d: %w", gameID, err)
		}
		for i := range teams {
			populateTeamMedia(&teams[i], s.uploader)
			switch teams[i].ID {
			case game.HomeTeamID:
				game.HomeTeam = &teams[i]
			case game.AwayTeamID:
				game.AwayTeam = &teams[i]
			}
		}
		return nil
	})
	g.Go(func() error {
		stats, err := s.gameRepo.ListPlayerStats(gCtx, gameID)
		if err != nil {
			return fmt.Errorf("failed to load box score for game %d: %w", gameID, err)
		}
		game.PlayerStats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(game.PlayerStats) > 0 {
		home := league.ComputeTeamStats(game.PlayerStats, game.HomeTeamID)
		away := league.ComputeTeamStats(game.PlayerStats, game.AwayTeamID)
		game.HomeStats = &home
		game.AwayStats = &away
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, filter repositories.GameFilter) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	if len(games) == 0 {
		return games, nil
	}

	// Собираем команды одним запросом и раздаём по играм.
	seen := make(map[int]struct{})
	ids := make([]int, 0, len(games)*2)
	for _, g := range games {
		for _, id := range []int{g.HomeTeamID, g.AwayTeamID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	teams, err := s.teamRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for game list: %w", err)
	}
	byID := make(map[int]*models.Team, len(teams))
	for i := range teams {
		populateTeamMedia(&teams[i], s.uploader)
		byID[teams[i].ID] = &teams[i]
	}
	for i := range games {
		games[i].HomeTeam = byID[games[i].HomeTeamID]
		games[i].AwayTeam = byID[games[i].AwayTeamID]
	}
	return games, nil
}

func (s *gameService) broadcast(event live.EventType, game *models.Game) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(live.RoomForGame(game.ID), live.Message{
		Type:    event,
		Payload: game,
	})
}
