package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/landrytower/liprobakin/models"
)

var ErrAuditEntryInvalid = errors.New("audit entry invalid")

// AuditRepository — журнал только на добавление. Update/Delete не существуют намеренно.
type AuditRepository interface {
	Append(ctx context.Context, exec SQLExecutor, entry *models.AuditLogEntry) error
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int, error)
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

func (r *postgresAuditRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAuditRepository) Append(ctx context.Context, exec SQLExecutor, entry *models.AuditLogEntry) error {
	if entry.ID == "" || entry.Action == "" {
		return ErrAuditEntryInvalid
	}
	executor := r.getExecutor(exec)

	detail, err := json.Marshal(entry.Detail)
	if err != nil {
		return fmt.Errorf("audit append: marshal detail: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, action, actor_id, actor_name, target_type, target_id, target_name, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = executor.ExecContext(ctx, query,
		entry.ID, entry.Action, entry.ActorID, entry.ActorName,
		entry.TargetType, entry.TargetID, entry.TargetName, detail, entry.CreatedAt,
	)
	return err
}

func (r *postgresAuditRepository) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}

	where := ""
	args := []interface{}{}
	if filter.Action != nil {
		where = ` WHERE action = $1`
		args = append(args, *filter.Action)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, action, actor_id, actor_name, target_type, target_id, target_name, detail, created_at
		FROM audit_logs%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]models.AuditLogEntry, 0)
	for rows.Next() {
		var e models.AuditLogEntry
		var detail []byte
		if err := rows.Scan(
			&e.ID, &e.Action, &e.ActorID, &e.ActorName,
			&e.TargetType, &e.TargetID, &e.TargetName, &detail, &e.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, 0, fmt.Errorf("audit list: unmarshal detail for %s: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
