package league

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landrytower/liprobakin/models"
)

func intp(v int) *int { return &v }

func decidedGame(division models.Division, home, away, winner, winnerScore, loserScore int) models.Game {
	loser := home
	if winner == home {
		loser = away
	}
	return models.Game{
		HomeTeamID:   home,
		AwayTeamID:   away,
		Division:     division,
		Status:       models.GameStatusCompleted,
		WinnerTeamID: intp(winner),
		LoserTeamID:  intp(loser),
		WinnerScore:  intp(winnerScore),
		LoserScore:   intp(loserScore),
	}
}

func rowFor(t *testing.T, rows []models.StandingRow, teamID int) models.StandingRow {
	t.Helper()
	for _, r := range rows {
		if r.TeamID == teamID {
			return r
		}
	}
	t.Fatalf("no standings row for team %d", teamID)
	return models.StandingRow{}
}

func TestComputeStandingsSingleGame(t *testing.T) {
	// TeamA (id 1) дома побеждает TeamB (id 2) 80:75 в мужском дивизионе.
	games := []models.Game{decidedGame(models.DivisionMen, 1, 2, 1, 80, 75)}

	rows := ComputeStandings(games)
	require.Len(t, rows, 2)

	a := rowFor(t, rows, 1)
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 0, a.Losses)
	assert.Equal(t, 80, a.TotalPoints)
	assert.Equal(t, 1, a.Seed)

	b := rowFor(t, rows, 2)
	assert.Equal(t, 0, b.Wins)
	assert.Equal(t, 1, b.Losses)
	assert.Equal(t, 75, b.TotalPoints)
	assert.Equal(t, 2, b.Seed)
}

func TestComputeStandingsIgnoresUndecidedGames(t *testing.T) {
	games := []models.Game{
		{HomeTeamID: 1, AwayTeamID: 2, Division: models.DivisionMen, Status: models.GameStatusScheduled},
		// Счёт есть, но победитель не назначен: игра не решена и не учитывается.
		{HomeTeamID: 3, AwayTeamID: 4, Division: models.DivisionMen, Status: models.GameStatusLive, WinnerScore: intp(50), LoserScore: intp(44)},
	}

	rows := ComputeStandings(games)
	assert.Empty(t, rows, "teams with no decided games must be absent, not shown 0-0")
}

func TestComputeStandingsAttributesByWinnerID(t *testing.T) {
	// Гостевая команда выигрывает: очки должны пойти по winner id, не по home/away.
	games := []models.Game{decidedGame(models.DivisionWomen, 1, 2, 2, 91, 60)}

	rows := ComputeStandings(games)
	require.Len(t, rows, 2)

	away := rowFor(t, rows, 2)
	assert.Equal(t, 1, away.Wins)
	assert.Equal(t, 91, away.TotalPoints)

	home := rowFor(t, rows, 1)
	assert.Equal(t, 1, home.Losses)
	assert.Equal(t, 60, home.TotalPoints)
}

func TestComputeStandingsConservation(t *testing.T) {
	games := []models.Game{
		decidedGame(models.DivisionMen, 1, 2, 1, 80, 75),
		decidedGame(models.DivisionMen, 2, 3, 3, 68, 62),
		decidedGame(models.DivisionMen, 3, 1, 1, 77, 70),
		decidedGame(models.DivisionMen, 1, 2, 2, 84, 81),
	}

	rows := ComputeStandings(games)

	// Победы+поражения команды равны числу решённых игр с её участием.
	played := map[int]int{}
	points := map[int]int{}
	for _, g := range games {
		played[*g.WinnerTeamID]++
		played[*g.LoserTeamID]++
		points[*g.WinnerTeamID] += *g.WinnerScore
		points[*g.LoserTeamID] += *g.LoserScore
	}
	for _, r := range rows {
		assert.Equal(t, played[r.TeamID], r.Wins+r.Losses, "team %d games played", r.TeamID)
		assert.Equal(t, points[r.TeamID], r.TotalPoints, "team %d total points", r.TeamID)
	}
}

func TestComputeStandingsOrderIndependence(t *testing.T) {
	games := []models.Game{
		decidedGame(models.DivisionMen, 1, 2, 1, 80, 75),
		decidedGame(models.DivisionMen, 3, 4, 4, 69, 66),
		decidedGame(models.DivisionWomen, 5, 6, 5, 72, 70),
		decidedGame(models.DivisionMen, 2, 3, 2, 90, 88),
		decidedGame(models.DivisionMen, 4, 1, 1, 100, 95),
	}

	expected := ComputeStandings(games)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Game, len(games))
		copy(shuffled, games)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, expected, ComputeStandings(shuffled))
	}
}

func TestComputeStandingsDivisionPartitionAndSeeding(t *testing.T) {
	games := []models.Game{
		decidedGame(models.DivisionMen, 1, 2, 1, 80, 75),
		decidedGame(models.DivisionMen, 1, 3, 1, 82, 60),
		decidedGame(models.DivisionMen, 2, 3, 2, 71, 65),
		decidedGame(models.DivisionWomen, 7, 8, 8, 64, 58),
	}

	rows := ComputeStandings(games)

	men := StandingsForDivision(rows, models.DivisionMen)
	require.Len(t, men, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{men[0].Seed, men[1].Seed, men[2].Seed})
	assert.Equal(t, 1, men[0].TeamID, "two wins ranks first")
	assert.Equal(t, 2, men[1].TeamID)
	assert.Equal(t, 3, men[2].TeamID)

	women := StandingsForDivision(rows, models.DivisionWomen)
	require.Len(t, women, 2)
	assert.Equal(t, 1, women[0].Seed)
	assert.Equal(t, 8, women[0].TeamID)
}

func TestComputeStandingsTieBreakByTotalPoints(t *testing.T) {
	// Команды 1 и 2 обе 1-1; у команды 2 больше суммарных очков.
	games := []models.Game{
		decidedGame(models.DivisionMen, 1, 2, 1, 70, 69),
		decidedGame(models.DivisionMen, 2, 1, 2, 95, 60),
	}

	rows := ComputeStandings(games)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].TeamID)
	assert.Equal(t, 164, rows[0].TotalPoints)
	assert.Equal(t, 1, rows[1].TeamID)
	assert.Equal(t, 130, rows[1].TotalPoints)
}
