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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile меняет только контакт и фан-предпочтения.
	// first_name/last_name иммутабельны после регистрации и не входят в запрос.
	UpdateProfile(ctx context.Context, user *models.User) error
	// ApplyReview выставляет verification_status и привязку к игроку внутри
	// транзакции ревью; НИКОГДА не трогает first_name/last_name.
	ApplyReview(ctx context.Context, exec SQLExecutor, userID int, status models.VerificationState, role *models.ClaimedRole, teamID, linkedPlayerID *int, linkedPlayerName *string) error
	Count(ctx context.Context) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const userColumns = `id, first_name, last_name, email, phone, password_hash, role, team_id,
	verification_status, linked_player_id, linked_player_name, favorite_team_id, favorite_athlete, created_at`

func (r *postgresUserRepository) scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.TeamID, &u.VerificationStatus,
		&u.LinkedPlayerID, &u.LinkedPlayerName,
		&u.FavoriteTeamID, &u.FavoriteAthlete, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.Phone, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.User, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanUser(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			phone = $1, favorite_team_id = $2, favorite_athlete = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		user.Phone, user.FavoriteTeamID, user.FavoriteAthlete, user.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) ApplyReview(ctx context.Context, exec SQLExecutor, userID int, status models.VerificationState, role *models.ClaimedRole, teamID, linkedPlayerID *int, linkedPlayerName *string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE users SET
			verification_status = $1, role = $2, team_id = $3,
			linked_player_id = $4, linked_player_name = $5
		WHERE id = $6`

	result, err := executor.ExecContext(ctx, query,
		status, role, teamID, linkedPlayerID, linkedPlayerName, userID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
