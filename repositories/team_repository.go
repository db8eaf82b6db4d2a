package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/landrytower/liprobakin/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, division *models.Division) ([]models.Team, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Team, error)
	Count(ctx context.Context) (int, error)
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, city, division, primary_color, secondary_color, logo_key, created_at`

func (r *postgresTeamRepository) scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.City, &t.Division,
		&t.PrimaryColor, &t.SecondaryColor, &t.LogoKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, city, division, primary_color, secondary_color, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name, team.City, team.Division,
		team.PrimaryColor, team.SecondaryColor, team.LogoKey,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_name_division_key" {
				return ErrTeamNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns)
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1, city = $2, division = $3, primary_color = $4, secondary_color = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		team.Name, team.City, team.Division,
		team.PrimaryColor, team.SecondaryColor, team.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_name_division_key" {
				return ErrTeamNameConflict
			}
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) List(ctx context.Context, division *models.Division) ([]models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams`, teamColumns)
	args := []interface{}{}
	if division != nil {
		query += ` WHERE division = $1`
		args = append(args, *division)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Team, error) {
	if len(ids) == 0 {
		return []models.Team{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = ANY($1)`, teamColumns)
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0, len(ids))
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	return count, err
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
