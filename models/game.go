package models

import "time"

// GameStatus соответствует ENUM в БД.
type GameStatus string

const (
	GameStatusScheduled GameStatus = "scheduled"
	GameStatusLive      GameStatus = "live"
	GameStatusCompleted GameStatus = "completed"
	GameStatusCanceled  GameStatus = "canceled"
)

// Game хранит расписание и результат одной игры. Инвариант: либо игра не завершена
// и winner/loser/счёт пустые, либо завершена и все четыре поля заполнены.
// Игры никогда не удаляются в обычном потоке, это исторические записи.
type Game struct {
	ID         int        `json:"id" db:"id"`
	HomeTeamID int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int        `json:"away_team_id" db:"away_team_id"`
	Division   Division   `json:"division" db:"division"`
	Venue      string     `json:"venue" db:"venue"`
	StartsAt   time.Time  `json:"starts_at" db:"starts_at"`
	Status     GameStatus `json:"status" db:"status"`

	WinnerTeamID *int `json:"winner_team_id,omitempty" db:"winner_team_id"`
	LoserTeamID  *int `json:"loser_team_id,omitempty" db:"loser_team_id"`
	WinnerScore  *int `json:"winner_score,omitempty" db:"winner_score"`
	LoserScore   *int `json:"loser_score,omitempty" db:"loser_score"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные данные, заполняются сервисом.
	HomeTeam    *Team        `json:"home_team,omitempty" db:"-"`
	AwayTeam    *Team        `json:"away_team,omitempty" db:"-"`
	PlayerStats []PlayerStat `json:"player_stats,omitempty" db:"-"`
	HomeStats   *TeamStats   `json:"home_stats,omitempty" db:"-"`
	AwayStats   *TeamStats   `json:"away_stats,omitempty" db:"-"`
}

// Decided reports whether the game carries both a winner and a loser team id.
// Only decided games contribute to standings.
func (g *Game) Decided() bool {
	return g.WinnerTeamID != nil && g.LoserTeamID != nil
}

// PlayerStat is one box-score line. Immutable once the game is completed.
type PlayerStat struct {
	ID         int    `json:"id" db:"id"`
	GameID     int    `json:"game_id" db:"game_id"`
	TeamID     int    `json:"team_id" db:"team_id"`
	PlayerName string `json:"player_name" db:"player_name"`

	Points           int `json:"points" db:"points"`
	OffRebounds      int `json:"off_rebounds" db:"off_rebounds"`
	DefRebounds      int `json:"def_rebounds" db:"def_rebounds"`
	Assists          int `json:"assists" db:"assists"`
	Steals           int `json:"steals" db:"steals"`
	Blocks           int `json:"blocks" db:"blocks"`
	Turnovers        int `json:"turnovers" db:"turnovers"`
	PersonalFouls    int `json:"personal_fouls" db:"personal_fouls"`
	TwoPtMade        int `json:"two_pt_made" db:"two_pt_made"`
	TwoPtAttempted   int `json:"two_pt_attempted" db:"two_pt_attempted"`
	ThreePtMade      int `json:"three_pt_made" db:"three_pt_made"`
	ThreePtAttempted int `json:"three_pt_attempted" db:"three_pt_attempted"`
	FtMade           int `json:"ft_made" db:"ft_made"`
	FtAttempted      int `json:"ft_attempted" db:"ft_attempted"`
}

// TeamStats is the per-team roll-up of a game's box score. Computed, not stored.
type TeamStats struct {
	TeamID int `json:"team_id"`

	Points        int `json:"points"`
	OffRebounds   int `json:"off_rebounds"`
	DefRebounds   int `json:"def_rebounds"`
	Rebounds      int `json:"rebounds"`
	Assists       int `json:"assists"`
	Steals        int `json:"steals"`
	Blocks        int `json:"blocks"`
	Turnovers     int `json:"turnovers"`
	PersonalFouls int `json:"personal_fouls"`

	TwoPtMade        int `json:"two_pt_made"`
	TwoPtAttempted   int `json:"two_pt_attempted"`
	ThreePtMade      int `json:"three_pt_made"`
	ThreePtAttempted int `json:"three_pt_attempted"`
	FtMade           int `json:"ft_made"`
	FtAttempted      int `json:"ft_attempted"`

	// Percentages are integers in [0,100]. Field goal combines 2pt and 3pt only;
	// free throws are reported separately.
	TwoPtPct     int `json:"two_pt_pct"`
	ThreePtPct   int `json:"three_pt_pct"`
	FieldGoalPct int `json:"field_goal_pct"`
	FtPct        int `json:"ft_pct"`
}

// StandingRow is one ranked line of a division table, derived from decided games.
type StandingRow struct {
	Seed        int      `json:"seed"`
	TeamID      int      `json:"team_id"`
	Division    Division `json:"division"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	TotalPoints int      `json:"total_points"`

	Team *Team `json:"team,omitempty"`
}
