package league

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/landrytower/liprobakin/models"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		made      int
		attempted int
		want      int
	}{
		{"zero attempts guards division by zero", 5, 0, 0},
		{"zero made", 0, 12, 0},
		{"half", 5, 10, 50},
		{"rounds up", 7, 15, 47},
		{"rounds down", 1, 3, 33},
		{"perfect", 9, 9, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.made, tt.attempted))
		})
	}
}

func TestPercentageBounds(t *testing.T) {
	for attempted := 0; attempted <= 30; attempted++ {
		for made := 0; made <= attempted; made++ {
			got := Percentage(made, attempted)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestComputeTeamStatsSumsMatchingTeamOnly(t *testing.T) {
	stats := []models.PlayerStat{
		{
			TeamID: 1, PlayerName: "A. Guard",
			Points: 21, OffRebounds: 2, DefRebounds: 5, Assists: 7, Steals: 3, Blocks: 1,
			Turnovers: 2, PersonalFouls: 3,
			TwoPtMade: 6, TwoPtAttempted: 10, ThreePtMade: 2, ThreePtAttempted: 6, FtMade: 3, FtAttempted: 4,
		},
		{
			TeamID: 1, PlayerName: "B. Center",
			Points: 14, OffRebounds: 4, DefRebounds: 8, Assists: 1, Steals: 0, Blocks: 4,
			Turnovers: 1, PersonalFouls: 4,
			TwoPtMade: 7, TwoPtAttempted: 11, FtMade: 0, FtAttempted: 2,
		},
		{
			TeamID: 2, PlayerName: "C. Opponent",
			Points: 30, TwoPtMade: 15, TwoPtAttempted: 20,
		},
	}

	ts := ComputeTeamStats(stats, 1)

	assert.Equal(t, 1, ts.TeamID)
	assert.Equal(t, 35, ts.Points)
	assert.Equal(t, 6, ts.OffRebounds)
	assert.Equal(t, 13, ts.DefRebounds)
	assert.Equal(t, 19, ts.Rebounds)
	assert.Equal(t, 8, ts.Assists)
	assert.Equal(t, 3, ts.Steals)
	assert.Equal(t, 5, ts.Blocks)
	assert.Equal(t, 3, ts.Turnovers)
	assert.Equal(t, 7, ts.PersonalFouls)
	assert.Equal(t, 13, ts.TwoPtMade)
	assert.Equal(t, 21, ts.TwoPtAttempted)
	assert.Equal(t, 2, ts.ThreePtMade)
	assert.Equal(t, 6, ts.ThreePtAttempted)
	assert.Equal(t, 3, ts.FtMade)
	assert.Equal(t, 6, ts.FtAttempted)
}

func TestComputeTeamStatsFieldGoalExcludesFreeThrows(t *testing.T) {
	// 5/10 двухочковых + 2/5 трёхочковых -> FG% = round(100*7/15) = 47.
	stats := []models.PlayerStat{
		{TeamID: 1, TwoPtMade: 5, TwoPtAttempted: 10, ThreePtMade: 2, ThreePtAttempted: 5, FtMade: 10, FtAttempted: 10},
	}

	ts := ComputeTeamStats(stats, 1)

	assert.Equal(t, 5, ts.TwoPtMade)
	assert.Equal(t, 10, ts.TwoPtAttempted)
	assert.Equal(t, 2, ts.ThreePtMade)
	assert.Equal(t, 5, ts.ThreePtAttempted)
	assert.Equal(t, 47, ts.FieldGoalPct)
	assert.Equal(t, 100, ts.FtPct)
}

func TestComputeTeamStatsEmptyInput(t *testing.T) {
	ts := ComputeTeamStats(nil, 1)
	assert.Equal(t, 0, ts.Points)
	assert.Equal(t, 0, ts.FieldGoalPct)
	assert.Equal(t, 0, ts.FtPct)
}
