package services

import (
	"context"
	"fmt"

	"github.com/landrytower/liprobakin/league"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/storage"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	// GetStandings считает таблицу дивизиона по завершённым играм.
	// Команды без единой решённой игры в таблицу не попадают.
	GetStandings(ctx context.Context, division models.Division) ([]models.StandingRow, error)
}

type standingsService struct {
	gameRepo repositories.GameRepository
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewStandingsService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) StandingsService {
	return &standingsService{
		gameRepo: gameRepo,
		teamRepo: teamRepo,
		uploader: uploader,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, division models.Division) ([]models.StandingRow, error) {
	if !division.Valid() {
		return nil, ErrInvalidDivision
	}

	var (
		games []models.Game
		teams []models.Team
	)
	completed := models.GameStatusCompleted

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.List(gCtx, repositories.GameFilter{
			Division: &division,
			Status:   &completed,
		})
		if err != nil {
			return fmt.Errorf("failed to list completed games: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gCtx, &division)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := league.StandingsForDivision(league.ComputeStandings(games), division)

	byID := make(map[int]*models.Team, len(teams))
	for i := range teams {
		populateTeamMedia(&teams[i], s.uploader)
		byID[teams[i].ID] = &teams[i]
	}
	for i := range rows {
		rows[i].Team = byID[rows[i].TeamID]
	}
	return rows, nil
}
