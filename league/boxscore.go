package league

import (
	"math"

	"github.com/landrytower/liprobakin/models"
)

// Percentage возвращает round(100*made/attempted) как целое в [0,100].
// При attempted == 0 возвращает 0, деления на ноль не бывает.
func Percentage(made, attempted int) int {
	if attempted == 0 {
		return 0
	}
	return int(math.Round(100 * float64(made) / float64(attempted)))
}

// ComputeTeamStats суммирует бокс-скоры игроков с teamID в командный итог.
// Процент с игры (field goal) объединяет только 2-очковые и 3-очковые;
// штрафные считаются отдельно.
func ComputeTeamStats(stats []models.PlayerStat, teamID int) models.TeamStats {
	ts := models.TeamStats{TeamID: teamID}

	for _, s := range stats {
		if s.TeamID != teamID {
			continue
		}
		ts.Points += s.Points
		ts.OffRebounds += s.OffRebounds
		ts.DefRebounds += s.DefRebounds
		ts.Assists += s.Assists
		ts.Steals += s.Steals
		ts.Blocks += s.Blocks
		ts.Turnovers += s.Turnovers
		ts.PersonalFouls += s.PersonalFouls
		ts.TwoPtMade += s.TwoPtMade
		ts.TwoPtAttempted += s.TwoPtAttempted
		ts.ThreePtMade += s.ThreePtMade
		ts.ThreePtAttempted += s.ThreePtAttempted
		ts.FtMade += s.FtMade
		ts.FtAttempted += s.FtAttempted
	}

	ts.Rebounds = ts.OffRebounds + ts.DefRebounds
	ts.TwoPtPct = Percentage(ts.TwoPtMade, ts.TwoPtAttempted)
	ts.ThreePtPct = Percentage(ts.ThreePtMade, ts.ThreePtAttempted)
	ts.FieldGoalPct = Percentage(ts.TwoPtMade+ts.ThreePtMade, ts.TwoPtAttempted+ts.ThreePtAttempted)
	ts.FtPct = Percentage(ts.FtMade, ts.FtAttempted)

	return ts
}
