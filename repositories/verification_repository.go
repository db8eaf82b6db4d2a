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
	ErrVerificationNotFound    = errors.New("verification request not found")
	ErrVerificationUserInvalid = errors.New("verification user conflict or invalid")
	ErrVerificationNotPending  = errors.New("verification request is not pending")
)

type VerificationRepository interface {
	Create(ctx context.Context, req *models.VerificationRequest) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.VerificationRequest, error)
	// GetPendingForUpdate блокирует строку (SELECT ... FOR UPDATE) внутри
	// транзакции ревью; не-pending заявка даёт ErrVerificationNotPending.
	GetPendingForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.VerificationRequest, error)
	MarkReviewed(ctx context.Context, exec SQLExecutor, id int, decision models.VerificationState, reviewerID int, reviewedAt time.Time, notes string) error
	ListPending(ctx context.Context) ([]models.VerificationRequest, error)
	GetPendingByUser(ctx context.Context, userID int) (*models.VerificationRequest, error)
	CountPending(ctx context.Context) (int, error)
}

type postgresVerificationRepository struct {
	db *sql.DB
}

func NewPostgresVerificationRepository(db *sql.DB) VerificationRepository {
	return &postgresVerificationRepository{db: db}
}

func (r *postgresVerificationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const verificationColumns = `id, user_id, claimed_role, claimed_team_id, claimed_person_id,
	id_image_key, status, submitted_at, reviewer_id, reviewed_at, reviewer_notes`

func (r *postgresVerificationRepository) scanRequest(row interface{ Scan(...interface{}) error }) (*models.VerificationRequest, error) {
	var v models.VerificationRequest
	err := row.Scan(
		&v.ID, &v.UserID, &v.ClaimedRole, &v.ClaimedTeamID, &v.ClaimedPersonID,
		&v.IDImageKey, &v.Status, &v.SubmittedAt,
		&v.ReviewerID, &v.ReviewedAt, &v.ReviewerNotes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresVerificationRepository) Create(ctx context.Context, req *models.VerificationRequest) error {
	query := `
		INSERT INTO verification_requests
			(user_id, claimed_role, claimed_team_id, claimed_person_id, id_image_key, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		req.UserID, req.ClaimedRole, req.ClaimedTeamID, req.ClaimedPersonID,
		req.IDImageKey, req.Status, req.SubmittedAt,
	).Scan(&req.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "verification_requests_user_id_fkey" {
				return ErrVerificationUserInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresVerificationRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.VerificationRequest, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM verification_requests WHERE id = $1`, verificationColumns)
	return r.scanRequest(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresVerificationRepository) GetPendingForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.VerificationRequest, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`SELECT %s FROM verification_requests WHERE id = $1 FOR UPDATE`, verificationColumns)
	req, err := r.scanRequest(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if req.Status != models.VerificationPending {
		return nil, ErrVerificationNotPending
	}
	return req, nil
}

func (r *postgresVerificationRepository) MarkReviewed(ctx context.Context, exec SQLExecutor, id int, decision models.VerificationState, reviewerID int, reviewedAt time.Time, notes string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE verification_requests SET
			status = $1, reviewer_id = $2, reviewed_at = $3, reviewer_notes = $4
		WHERE id = $5 AND status = 'pending'`

	result, err := executor.ExecContext(ctx, query, decision, reviewerID, reviewedAt, notes, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVerificationNotPending)
}

func (r *postgresVerificationRepository) ListPending(ctx context.Context) ([]models.VerificationRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM verification_requests WHERE status = 'pending' ORDER BY submitted_at ASC`, verificationColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]models.VerificationRequest, 0)
	for rows.Next() {
		v, scanErr := r.scanRequest(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		requests = append(requests, *v)
	}
	return requests, rows.Err()
}

func (r *postgresVerificationRepository) GetPendingByUser(ctx context.Context, userID int) (*models.VerificationRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM verification_requests WHERE user_id = $1 AND status = 'pending'`, verificationColumns)
	return r.scanRequest(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresVerificationRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verification_requests WHERE status = 'pending'`).Scan(&count)
	return count, err
}
