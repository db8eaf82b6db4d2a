package league

import (
	"fmt"
	"sort"
	"time"

	"github.com/landrytower/liprobakin/models"
)

// ScheduleParams задаёт генерацию кругового календаря для одного дивизиона.
type ScheduleParams struct {
	Teams       []models.Team
	Division    models.Division
	FirstTipoff time.Time
	// Интервал между игровыми слотами; игры раскладываются последовательно.
	SlotInterval time.Duration
	Venue        string
	// 1 — один круг, 2 — два круга с обменом хозяев.
	Rounds int
}

// GenerateRoundRobin строит полный круговой календарь: каждая команда играет
// с каждой один раз (или дважды при Rounds == 2, со сменой домашней площадки).
// Возвращаемые игры имеют статус scheduled и ещё не имеют результата.
func GenerateRoundRobin(params ScheduleParams) ([]models.Game, error) {
	teams := params.Teams
	if len(teams) < 2 {
		return nil, fmt.Errorf("round robin: not enough teams (found %d, min 2 required)", len(teams))
	}
	for _, t := range teams {
		if t.Division != params.Division {
			return nil, fmt.Errorf("round robin: team %d is not in division %s", t.ID, params.Division)
		}
	}

	rounds := params.Rounds
	if rounds != 1 && rounds != 2 {
		rounds = 1
	}
	interval := params.SlotInterval
	if interval <= 0 {
		interval = 7 * 24 * time.Hour
	}

	games := make([]models.Game, 0, rounds*len(teams)*(len(teams)-1)/2)
	slot := 0

	appendGame := func(home, away models.Team) {
		games = append(games, models.Game{
			HomeTeamID: home.ID,
			AwayTeamID: away.ID,
			Division:   params.Division,
			Venue:      params.Venue,
			StartsAt:   params.FirstTipoff.Add(time.Duration(slot) * interval),
			Status:     models.GameStatusScheduled,
		})
		slot++
	}

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			appendGame(teams[i], teams[j])
		}
	}
	if rounds == 2 {
		// Второй круг с обменом хозяев площадки.
		for i := 0; i < len(teams); i++ {
			for j := i + 1; j < len(teams); j++ {
				appendGame(teams[j], teams[i])
			}
		}
	}

	sort.SliceStable(games, func(a, b int) bool { return games[a].StartsAt.Before(games[b].StartsAt) })
	return games, nil
}
