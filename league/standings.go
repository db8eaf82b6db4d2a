// Package league содержит чистые вычисления лиги: таблицы дивизионов,
// свод командной статистики из бокс-скоров и генерацию календаря.
package league

import (
	"sort"

	"github.com/landrytower/liprobakin/models"
)

type tally struct {
	teamID      int
	division    models.Division
	wins        int
	losses      int
	totalPoints int
}

// ComputeStandings строит таблицы по полному набору игр.
//
// Учитываются только решённые игры (заполнены и winner, и loser). Очки
// приписываются сравнением id команды с winner id, а не по home/away.
// Внутри дивизиона сортировка по убыванию побед, при равенстве по убыванию
// суммарных очков; при полном равенстве порядок стабилен по team id. Seed нумеруется 1..N
// в каждом дивизионе. Команда без решённых игр в таблице отсутствует.
//
// Функция идемпотентна и не зависит от порядка игр во входном срезе.
func ComputeStandings(games []models.Game) []models.StandingRow {
	tallies := make(map[int]*tally)

	get := func(teamID int, division models.Division) *tally {
		t, ok := tallies[teamID]
		if !ok {
			t = &tally{teamID: teamID, division: division}
			tallies[teamID] = t
		}
		return t
	}

	for _, g := range games {
		if !g.Decided() || g.WinnerScore == nil || g.LoserScore == nil {
			continue
		}
		winner := get(*g.WinnerTeamID, g.Division)
		winner.wins++
		winner.totalPoints += *g.WinnerScore

		loser := get(*g.LoserTeamID, g.Division)
		loser.losses++
		loser.totalPoints += *g.LoserScore
	}

	rows := make([]models.StandingRow, 0, len(tallies))
	for _, t := range tallies {
		rows = append(rows, models.StandingRow{
			TeamID:      t.teamID,
			Division:    t.division,
			Wins:        t.wins,
			Losses:      t.losses,
			TotalPoints: t.totalPoints,
		})
	}

	// Каноничный базовый порядок (team id ASC) перед ранжированием, чтобы выход
	// не зависел ни от итерации по map, ни от порядка игр во входе.
	sort.Slice(rows, func(i, j int) bool { return rows[i].TeamID < rows[j].TeamID })

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Division != b.Division {
			return a.Division < b.Division
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.TotalPoints > b.TotalPoints
	})

	seed := 0
	var prevDivision models.Division
	for i := range rows {
		if rows[i].Division != prevDivision {
			prevDivision = rows[i].Division
			seed = 0
		}
		seed++
		rows[i].Seed = seed
	}

	return rows
}

// StandingsForDivision фильтрует готовую таблицу по дивизиону.
func StandingsForDivision(rows []models.StandingRow, division models.Division) []models.StandingRow {
	out := make([]models.StandingRow, 0, len(rows))
	for _, r := range rows {
		if r.Division == division {
			out = append(out, r)
		}
	}
	return out
}
