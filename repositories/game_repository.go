package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/landrytower/liprobakin/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameTeamInvalid = errors.New("game team conflict or invalid")
)

// GameFilter ограничивает выборку игр.
type GameFilter struct {
	Division *models.Division
	Status   *models.GameStatus
	TeamID   *int
	From     *time.Time
	To       *time.Time
}

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	BatchCreate(ctx context.Context, games []models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	// Complete выставляет статус completed и результат одной командой,
	// сохраняя инвариант "решённая игра несёт все четыре поля результата".
	Complete(ctx context.Context, exec SQLExecutor, gameID, winnerTeamID, loserTeamID, winnerScore, loserScore int) error
	SetStatus(ctx context.Context, id int, status models.GameStatus) error
	List(ctx context.Context, filter GameFilter) ([]models.Game, error)
	Count(ctx context.Context, status *models.GameStatus) (int, error)

	ReplacePlayerStats(ctx context.Context, exec SQLExecutor, gameID int, stats []models.PlayerStat) error
	ListPlayerStats(ctx context.Context, gameID int) ([]models.PlayerStat, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `id, home_team_id, away_team_id, division, venue, starts_at, status,
	winner_team_id, loser_team_id, winner_score, loser_score, created_at`

func (r *postgresGameRepository) scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := row.Scan(
		&g.ID, &g.HomeTeamID, &g.AwayTeamID, &g.Division, &g.Venue, &g.StartsAt, &g.Status,
		&g.WinnerTeamID, &g.LoserTeamID, &g.WinnerScore, &g.LoserScore, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func mapGameConstraint(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "games_home_team_id_fkey", "games_away_team_id_fkey":
			return ErrGameTeamInvalid
		}
	}
	return err
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (home_team_id, away_team_id, division, venue, starts_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.HomeTeamID, game.AwayTeamID, game.Division, game.Venue, game.StartsAt, game.Status,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		return mapGameConstraint(err)
	}
	return nil
}

func (r *postgresGameRepository) BatchCreate(ctx context.Context, games []models.Game) error {
	if len(games) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batch create games: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (home_team_id, away_team_id, division, venue, starts_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("batch create games: prepare: %w", err)
	}
	defer stmt.Close()

	for _, g := range games {
		if _, err := stmt.ExecContext(ctx,
			g.HomeTeamID, g.AwayTeamID, g.Division, g.Venue, g.StartsAt, g.Status,
		); err != nil {
			return fmt.Errorf("batch create games (%d vs %d): %w", g.HomeTeamID, g.AwayTeamID, mapGameConstraint(err))
		}
	}
	return tx.Commit()
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM games WHERE id = $1`, gameColumns)
	return r.scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games SET home_team_id = $1, away_team_id = $2, division = $3, venue = $4, starts_at = $5
		WHERE id = $6 AND status = 'scheduled'`

	result, err := r.db.ExecContext(ctx, query,
		game.HomeTeamID, game.AwayTeamID, game.Division, game.Venue, game.StartsAt, game.ID,
	)
	if err != nil {
		return mapGameConstraint(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Complete(ctx context.Context, exec SQLExecutor, gameID, winnerTeamID, loserTeamID, winnerScore, loserScore int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games SET
			status = 'completed',
			winner_team_id = $1, loser_team_id = $2, winner_score = $3, loser_score = $4
		WHERE id = $5 AND status <> 'completed'`

	result, err := executor.ExecContext(ctx, query, winnerTeamID, loserTeamID, winnerScore, loserScore, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) SetStatus(ctx context.Context, id int, status models.GameStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE games SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) List(ctx context.Context, filter GameFilter) ([]models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE 1=1`, gameColumns)
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Division != nil {
		query += ` AND division = ` + arg(*filter.Division)
	}
	if filter.Status != nil {
		query += ` AND status = ` + arg(*filter.Status)
	}
	if filter.TeamID != nil {
		p := arg(*filter.TeamID)
		query += fmt.Sprintf(` AND (home_team_id = %s OR away_team_id = %s)`, p, p)
	}
	if filter.From != nil {
		query += ` AND starts_at >= ` + arg(*filter.From)
	}
	if filter.To != nil {
		query += ` AND starts_at < ` + arg(*filter.To)
	}
	query += ` ORDER BY starts_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, scanErr := r.scanGame(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func (r *postgresGameRepository) Count(ctx context.Context, status *models.GameStatus) (int, error) {
	var count int
	var err error
	if status != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE status = $1`, *status).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	}
	return count, err
}

const playerStatColumns = `id, game_id, team_id, player_name, points, off_rebounds, def_rebounds,
	assists, steals, blocks, turnovers, personal_fouls,
	two_pt_made, two_pt_attempted, three_pt_made, three_pt_attempted, ft_made, ft_attempted`

func (r *postgresGameRepository) ReplacePlayerStats(ctx context.Context, exec SQLExecutor, gameID int, stats []models.PlayerStat) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM game_player_stats WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("replace player stats: clear: %w", err)
	}

	query := `
		INSERT INTO game_player_stats
			(game_id, team_id, player_name, points, off_rebounds, def_rebounds,
			 assists, steals, blocks, turnovers, personal_fouls,
			 two_pt_made, two_pt_attempted, three_pt_made, three_pt_attempted, ft_made, ft_attempted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	for _, s := range stats {
		if _, err := executor.ExecContext(ctx, query,
			gameID, s.TeamID, s.PlayerName, s.Points, s.OffRebounds, s.DefRebounds,
			s.Assists, s.Steals, s.Blocks, s.Turnovers, s.PersonalFouls,
			s.TwoPtMade, s.TwoPtAttempted, s.ThreePtMade, s.ThreePtAttempted, s.FtMade, s.FtAttempted,
		); err != nil {
			return fmt.Errorf("replace player stats (%s): %w", s.PlayerName, err)
		}
	}
	return nil
}

func (r *postgresGameRepository) ListPlayerStats(ctx context.Context, gameID int) ([]models.PlayerStat, error) {
	query := fmt.Sprintf(`SELECT %s FROM game_player_stats WHERE game_id = $1 ORDER BY team_id ASC, player_name ASC`, playerStatColumns)
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.PlayerStat, 0)
	for rows.Next() {
		var s models.PlayerStat
		if err := rows.Scan(
			&s.ID, &s.GameID, &s.TeamID, &s.PlayerName, &s.Points, &s.OffRebounds, &s.DefRebounds,
			&s.Assists, &s.Steals, &s.Blocks, &s.Turnovers, &s.PersonalFouls,
			&s.TwoPtMade, &s.TwoPtAttempted, &s.ThreePtMade, &s.ThreePtAttempted, &s.FtMade, &s.FtAttempted,
		); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
