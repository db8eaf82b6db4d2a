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
	ErrRosterPlayerNotFound  = errors.New("roster player not found")
	ErrRosterJerseyConflict  = errors.New("jersey number already taken in this team")
	ErrRosterTeamInvalid     = errors.New("roster team conflict or invalid")
	ErrCoachStaffNotFound    = errors.New("coach or staff member not found")
	ErrCoachStaffTeamInvalid = errors.New("coach staff team conflict or invalid")
)

type RosterRepository interface {
	CreatePlayer(ctx context.Context, player *models.RosterPlayer) error
	GetPlayerByID(ctx context.Context, exec SQLExecutor, id int) (*models.RosterPlayer, error)
	UpdatePlayer(ctx context.Context, player *models.RosterPlayer) error
	DeletePlayer(ctx context.Context, id int) error
	ListByTeamID(ctx context.Context, teamID int) ([]models.RosterPlayer, error)
	UpdatePlayerPhotoKey(ctx context.Context, id int, photoKey *string) error
	// LinkUser выставляет только linked_user_id/linked_user_name/linked_at.
	// Колонка name игрока этим запросом не затрагивается.
	LinkUser(ctx context.Context, exec SQLExecutor, playerID int, userID int, userName string, linkedAt time.Time) error
	UnlinkUser(ctx context.Context, exec SQLExecutor, playerID int) error

	CreateStaff(ctx context.Context, staff *models.CoachStaff) error
	GetStaffByID(ctx context.Context, exec SQLExecutor, id int) (*models.CoachStaff, error)
	UpdateStaff(ctx context.Context, staff *models.CoachStaff) error
	DeleteStaff(ctx context.Context, id int) error
	ListStaffByTeamID(ctx context.Context, teamID int) ([]models.CoachStaff, error)
	LinkStaffUser(ctx context.Context, exec SQLExecutor, staffID int, userID int, userName string, linkedAt time.Time) error
}

type postgresRosterRepository struct {
	db *sql.DB
}

func NewPostgresRosterRepository(db *sql.DB) RosterRepository {
	return &postgresRosterRepository{db: db}
}

func (r *postgresRosterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const rosterPlayerColumns = `id, team_id, name, jersey, position, height_cm, nationality, photo_key,
	ppg, rpg, apg, bpg, spg, linked_user_id, linked_user_name, linked_at, created_at`

func (r *postgresRosterRepository) scanPlayer(row interface{ Scan(...interface{}) error }) (*models.RosterPlayer, error) {
	var p models.RosterPlayer
	err := row.Scan(
		&p.ID, &p.TeamID, &p.Name, &p.Jersey, &p.Position, &p.HeightCM, &p.Nationality, &p.PhotoKey,
		&p.PPG, &p.RPG, &p.APG, &p.BPG, &p.SPG,
		&p.LinkedUserID, &p.LinkedUserName, &p.LinkedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRosterPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func mapRosterConstraint(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "roster_players_team_id_jersey_key" {
				return ErrRosterJerseyConflict
			}
		case "23503":
			if pqErr.Constraint == "roster_players_team_id_fkey" {
				return ErrRosterTeamInvalid
			}
		}
	}
	return err
}

func (r *postgresRosterRepository) CreatePlayer(ctx context.Context, player *models.RosterPlayer) error {
	query := `
		INSERT INTO roster_players
			(team_id, name, jersey, position, height_cm, nationality, photo_key, ppg, rpg, apg, bpg, spg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.TeamID, player.Name, player.Jersey, player.Position,
		player.HeightCM, player.Nationality, player.PhotoKey,
		player.PPG, player.RPG, player.APG, player.BPG, player.SPG,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		return mapRosterConstraint(err)
	}
	return nil
}

func (r *postgresRosterRepository) GetPlayerByID(ctx context.Context, exec SQLExecutor, id int) (*models.RosterPlayer, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM roster_players WHERE id = $1`, rosterPlayerColumns)
	return r.scanPlayer(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresRosterRepository) UpdatePlayer(ctx context.Context, player *models.RosterPlayer) error {
	query := `
		UPDATE roster_players SET
			name = $1, jersey = $2, position = $3, height_cm = $4, nationality = $5,
			ppg = $6, rpg = $7, apg = $8, bpg = $9, spg = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		player.Name, player.Jersey, player.Position, player.HeightCM, player.Nationality,
		player.PPG, player.RPG, player.APG, player.BPG, player.SPG,
		player.ID,
	)
	if err != nil {
		return mapRosterConstraint(err)
	}
	return checkAffectedRows(result, ErrRosterPlayerNotFound)
}

func (r *postgresRosterRepository) DeletePlayer(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roster_players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterPlayerNotFound)
}

func (r *postgresRosterRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.RosterPlayer, error) {
	// Jersey — ключ сортировки состава.
	query := fmt.Sprintf(`SELECT %s FROM roster_players WHERE team_id = $1 ORDER BY jersey ASC`, rosterPlayerColumns)
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.RosterPlayer, 0)
	for rows.Next() {
		p, scanErr := r.scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *postgresRosterRepository) UpdatePlayerPhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE roster_players SET photo_key = $1 WHERE id = $2`, photoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterPlayerNotFound)
}

func (r *postgresRosterRepository) LinkUser(ctx context.Context, exec SQLExecutor, playerID int, userID int, userName string, linkedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE roster_players SET linked_user_id = $1, linked_user_name = $2, linked_at = $3
		WHERE id = $4`
	result, err := executor.ExecContext(ctx, query, userID, userName, linkedAt, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterPlayerNotFound)
}

func (r *postgresRosterRepository) UnlinkUser(ctx context.Context, exec SQLExecutor, playerID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE roster_players SET linked_user_id = NULL, linked_user_name = NULL, linked_at = NULL
		WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRosterPlayerNotFound)
}

const coachStaffColumns = `id, team_id, name, role, photo_key, linked_user_id, linked_user_name, linked_at, created_at`

func (r *postgresRosterRepository) scanStaff(row interface{ Scan(...interface{}) error }) (*models.CoachStaff, error) {
	var s models.CoachStaff
	err := row.Scan(
		&s.ID, &s.TeamID, &s.Name, &s.Role, &s.PhotoKey,
		&s.LinkedUserID, &s.LinkedUserName, &s.LinkedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoachStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRosterRepository) CreateStaff(ctx context.Context, staff *models.CoachStaff) error {
	query := `
		INSERT INTO coach_staff (team_id, name, role, photo_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		staff.TeamID, staff.Name, staff.Role, staff.PhotoKey,
	).Scan(&staff.ID, &staff.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "coach_staff_team_id_fkey" {
				return ErrCoachStaffTeamInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresRosterRepository) GetStaffByID(ctx context.Context, exec SQLExecutor, id int) (*models.CoachStaff, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM coach_staff WHERE id = $1`, coachStaffColumns)
	return r.scanStaff(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresRosterRepository) UpdateStaff(ctx context.Context, staff *models.CoachStaff) error {
	query := `UPDATE coach_staff SET name = $1, role = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, staff.Name, staff.Role, staff.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCoachStaffNotFound)
}

func (r *postgresRosterRepository) DeleteStaff(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM coach_staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCoachStaffNotFound)
}

func (r *postgresRosterRepository) ListStaffByTeamID(ctx context.Context, teamID int) ([]models.CoachStaff, error) {
	query := fmt.Sprintf(`SELECT %s FROM coach_staff WHERE team_id = $1 ORDER BY role ASC, name ASC`, coachStaffColumns)
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := make([]models.CoachStaff, 0)
	for rows.Next() {
		s, scanErr := r.scanStaff(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		staff = append(staff, *s)
	}
	return staff, rows.Err()
}

func (r *postgresRosterRepository) LinkStaffUser(ctx context.Context, exec SQLExecutor, staffID int, userID int, userName string, linkedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE coach_staff SET linked_user_id = $1, linked_user_name = $2, linked_at = $3
		WHERE id = $4`
	result, err := executor.ExecContext(ctx, query, userID, userName, linkedAt, staffID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCoachStaffNotFound)
}
