package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeamRepo struct {
	repositories.TeamRepository
	teams map[int]*models.Team
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *team
	return &cp, nil
}

func (f *fakeTeamRepo) ListByIDs(_ context.Context, ids []int) ([]models.Team, error) {
	out := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		if team, ok := f.teams[id]; ok {
			out = append(out, *team)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) List(_ context.Context, division *models.Division) ([]models.Team, error) {
	var out []models.Team
	for _, team := range f.teams {
		if division == nil || team.Division == *division {
			out = append(out, *team)
		}
	}
	return out, nil
}

type fakeGameRepo struct {
	repositories.GameRepository
	created []models.Game
}

func (f *fakeGameRepo) Create(_ context.Context, game *models.Game) error {
	game.ID = len(f.created) + 1
	f.created = append(f.created, *game)
	return nil
}

func (f *fakeGameRepo) BatchCreate(_ context.Context, games []models.Game) error {
	f.created = append(f.created, games...)
	return nil
}

func newGameFixture() (*fakeGameRepo, *fakeAuditRepo, clockwork.Clock, GameService) {
	teams := &fakeTeamRepo{teams: map[int]*models.Team{
		1: {ID: 1, Name: "Grizzly", Division: models.DivisionMen},
		2: {ID: 2, Name: "Sokol", Division: models.DivisionMen},
		3: {ID: 3, Name: "Vertical", Division: models.DivisionWomen},
	}}
	games := &fakeGameRepo{}
	audit := &fakeAuditRepo{}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC))
	svc := NewGameService(nil, games, teams, audit, nil, nil, clock)
	return games, audit, clock, svc
}

func TestScheduleGameValidation(t *testing.T) {
	_, _, clock, svc := newGameFixture()
	ctx := context.Background()
	future := clock.Now().Add(48 * time.Hour)

	_, err := svc.ScheduleGame(ctx, nil, ScheduleGameInput{
		HomeTeamID: 1, AwayTeamID: 1, Division: models.DivisionMen, Venue: "Arena", StartsAt: future,
	})
	assert.ErrorIs(t, err, ErrSameTeamGame)

	_, err = svc.ScheduleGame(ctx, nil, ScheduleGameInput{
		HomeTeamID: 1, AwayTeamID: 2, Division: "mixed", Venue: "Arena", StartsAt: future,
	})
	assert.ErrorIs(t, err, ErrInvalidDivision)

	// Обе команды должны играть в дивизионе игры.
	_, err = svc.ScheduleGame(ctx, nil, ScheduleGameInput{
		HomeTeamID: 1, AwayTeamID: 3, Division: models.DivisionMen, Venue: "Arena", StartsAt: future,
	})
	assert.ErrorIs(t, err, ErrGameDivisionMismatch)

	_, err = svc.ScheduleGame(ctx, nil, ScheduleGameInput{
		HomeTeamID: 1, AwayTeamID: 2, Division: models.DivisionMen, Venue: "Arena",
		StartsAt: clock.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.ScheduleGame(ctx, nil, ScheduleGameInput{
		HomeTeamID: 1, AwayTeamID: 9, Division: models.DivisionMen, Venue: "Arena", StartsAt: future,
	})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestScheduleGameCreatesAndAudits(t *testing.T) {
	games, audit, clock, svc := newGameFixture()
	actor := &models.AdminUser{ID: 5, FullName: "Scheduler"}

	game, err := svc.ScheduleGame(context.Background(), actor, ScheduleGameInput{
		HomeTeamID: 1, AwayTeamID: 2, Division: models.DivisionMen,
		Venue: "Dvorets Sporta", StartsAt: clock.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusScheduled, game.Status)
	require.Len(t, games.created, 1)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditGameScheduled, audit.entries[0].Action)
	assert.Equal(t, 5, audit.entries[0].ActorID)
}

func TestGenerateSeasonSchedulePersistsRoundRobin(t *testing.T) {
	games, audit, clock, svc := newGameFixture()

	created, err := svc.GenerateSeasonSchedule(context.Background(), nil, SeasonScheduleInput{
		Division:     models.DivisionMen,
		FirstTipoff:  clock.Now().Add(7 * 24 * time.Hour),
		SlotInterval: 2 * time.Hour,
		Venue:        "Dvorets Sporta",
		Rounds:       1,
	})
	require.NoError(t, err)

	// Две мужские команды дают ровно одну игру за круг.
	require.Len(t, created, 1)
	assert.Len(t, games.created, 1)
	assert.Equal(t, models.DivisionMen, created[0].Division)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditGameScheduled, audit.entries[0].Action)
}

func TestGenerateSeasonScheduleRejectsUnknownDivision(t *testing.T) {
	_, _, clock, svc := newGameFixture()

	_, err := svc.GenerateSeasonSchedule(context.Background(), nil, SeasonScheduleInput{
		Division:    "mixed",
		FirstTipoff: clock.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidDivision)
}
