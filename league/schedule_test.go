package league

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landrytower/liprobakin/models"
)

func menTeams(n int) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{ID: i + 1, Division: models.DivisionMen}
	}
	return teams
}

func TestGenerateRoundRobinSingleRound(t *testing.T) {
	first := time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC)
	games, err := GenerateRoundRobin(ScheduleParams{
		Teams:        menTeams(4),
		Division:     models.DivisionMen,
		FirstTipoff:  first,
		SlotInterval: 24 * time.Hour,
		Venue:        "Main Arena",
		Rounds:       1,
	})
	require.NoError(t, err)

	// n(n-1)/2 игр для одного круга.
	require.Len(t, games, 6)

	pairings := map[[2]int]int{}
	for _, g := range games {
		assert.Equal(t, models.GameStatusScheduled, g.Status)
		assert.False(t, g.Decided())
		assert.Equal(t, "Main Arena", g.Venue)
		lo, hi := g.HomeTeamID, g.AwayTeamID
		if lo > hi {
			lo, hi = hi, lo
		}
		pairings[[2]int{lo, hi}]++
	}
	assert.Len(t, pairings, 6, "each pair meets exactly once")

	assert.Equal(t, first, games[0].StartsAt)
	for i := 1; i < len(games); i++ {
		assert.True(t, games[i-1].StartsAt.Before(games[i].StartsAt))
	}
}

func TestGenerateRoundRobinDoubleRoundSwapsHome(t *testing.T) {
	games, err := GenerateRoundRobin(ScheduleParams{
		Teams:       menTeams(3),
		Division:    models.DivisionMen,
		FirstTipoff: time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC),
		Rounds:      2,
	})
	require.NoError(t, err)
	require.Len(t, games, 6)

	homeCount := map[int]int{}
	for _, g := range games {
		homeCount[g.HomeTeamID]++
	}
	for id, n := range homeCount {
		assert.Equal(t, 2, n, "team %d hosts once per opponent across two rounds", id)
	}
}

func TestGenerateRoundRobinValidation(t *testing.T) {
	_, err := GenerateRoundRobin(ScheduleParams{Teams: menTeams(1), Division: models.DivisionMen})
	assert.Error(t, err)

	mixed := menTeams(2)
	mixed[1].Division = models.DivisionWomen
	_, err = GenerateRoundRobin(ScheduleParams{Teams: mixed, Division: models.DivisionMen})
	assert.Error(t, err)
}
