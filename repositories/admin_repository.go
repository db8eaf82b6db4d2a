package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/landrytower/liprobakin/models"
	"github.com/lib/pq"
)

var (
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrAdminEmailConflict = errors.New("admin email conflict")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	// UpdateRoles пишет роли и пересчитанные из них пермиссии одной командой.
	UpdateRoles(ctx context.Context, id int, roles []models.AdminRole, permissions models.AdminPermissions) error
	UpdatePassword(ctx context.Context, id int, passwordHash string, firstLogin bool) error
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.AdminUser, error)
}

type postgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepository{db: db}
}

func (r *postgresAdminRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const adminColumns = `id, email, full_name, password_hash, roles, active, first_login, created_at`

func (r *postgresAdminRepository) scanAdmin(row interface{ Scan(...interface{}) error }) (*models.AdminUser, error) {
	var a models.AdminUser
	var roles pq.StringArray
	err := row.Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash,
		&roles, &a.Active, &a.FirstLogin, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	a.Roles = make([]models.AdminRole, len(roles))
	for i, role := range roles {
		a.Roles[i] = models.AdminRole(role)
	}
	// Пермиссии всегда выводятся из ролей; хранимая колонка permissions
	// служит только для аудита и внешних выгрузок.
	a.Permissions = models.MergePermissions(a.Roles)
	return &a, nil
}

func rolesToArray(roles []models.AdminRole) pq.StringArray {
	arr := make(pq.StringArray, len(roles))
	for i, role := range roles {
		arr[i] = string(role)
	}
	return arr
}

func permissionsToJSON(p models.AdminPermissions) []byte {
	// AdminPermissions — плоская структура из bool, маршалинг не может упасть.
	data, _ := json.Marshal(p)
	return data
}

func (r *postgresAdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, full_name, password_hash, roles, permissions, active, first_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		admin.Email, admin.FullName, admin.PasswordHash,
		rolesToArray(admin.Roles), permissionsToJSON(admin.Permissions),
		admin.Active, admin.FirstLogin,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "admin_users_email_key" {
				return ErrAdminEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresAdminRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.AdminUser, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE id = $1`, adminColumns)
	return r.scanAdmin(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresAdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE email = $1`, adminColumns)
	return r.scanAdmin(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresAdminRepository) UpdateRoles(ctx context.Context, id int, roles []models.AdminRole, permissions models.AdminPermissions) error {
	query := `UPDATE admin_users SET roles = $1, permissions = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, rolesToArray(roles), permissionsToJSON(permissions), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAdminNotFound)
}

func (r *postgresAdminRepository) UpdatePassword(ctx context.Context, id int, passwordHash string, firstLogin bool) error {
	query := `UPDATE admin_users SET password_hash = $1, first_login = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, passwordHash, firstLogin, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAdminNotFound)
}

func (r *postgresAdminRepository) SetActive(ctx context.Context, id int, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE admin_users SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAdminNotFound)
}

func (r *postgresAdminRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAdminNotFound)
}

func (r *postgresAdminRepository) List(ctx context.Context) ([]models.AdminUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users ORDER BY created_at ASC`, adminColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]models.AdminUser, 0)
	for rows.Next() {
		a, scanErr := r.scanAdmin(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		admins = append(admins, *a)
	}
	return admins, rows.Err()
}
