package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/landrytower/liprobakin/models"
)

var (
	ErrPartnerNotFound         = errors.New("partner not found")
	ErrCommitteeMemberNotFound = errors.New("committee member not found")
	ErrRefereeNotFound         = errors.New("referee not found")
)

// DirectoryRepository обслуживает справочные коллекции сайта:
// партнёры лиги, оргкомитет и судьи.
type DirectoryRepository interface {
	CreatePartner(ctx context.Context, p *models.Partner) error
	GetPartnerByID(ctx context.Context, id int) (*models.Partner, error)
	UpdatePartner(ctx context.Context, p *models.Partner) error
	DeletePartner(ctx context.Context, id int) error
	ListPartners(ctx context.Context) ([]models.Partner, error)

	CreateCommitteeMember(ctx context.Context, m *models.CommitteeMember) error
	UpdateCommitteeMember(ctx context.Context, m *models.CommitteeMember) error
	DeleteCommitteeMember(ctx context.Context, id int) error
	ListCommitteeMembers(ctx context.Context) ([]models.CommitteeMember, error)

	CreateReferee(ctx context.Context, ref *models.Referee) error
	UpdateReferee(ctx context.Context, ref *models.Referee) error
	DeleteReferee(ctx context.Context, id int) error
	ListReferees(ctx context.Context) ([]models.Referee, error)
}

type postgresDirectoryRepository struct {
	db *sql.DB
}

func NewPostgresDirectoryRepository(db *sql.DB) DirectoryRepository {
	return &postgresDirectoryRepository{db: db}
}

func (r *postgresDirectoryRepository) CreatePartner(ctx context.Context, p *models.Partner) error {
	query := `
		INSERT INTO partners (name, website, tier, logo_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, p.Name, p.Website, p.Tier, p.LogoKey).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *postgresDirectoryRepository) GetPartnerByID(ctx context.Context, id int) (*models.Partner, error) {
	query := `SELECT id, name, website, tier, logo_key, created_at FROM partners WHERE id = $1`
	var p models.Partner
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Website, &p.Tier, &p.LogoKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to get partner %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresDirectoryRepository) UpdatePartner(ctx context.Context, p *models.Partner) error {
	query := `UPDATE partners SET name = $1, website = $2, tier = $3, logo_key = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Website, p.Tier, p.LogoKey, p.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPartnerNotFound)
}

func (r *postgresDirectoryRepository) DeletePartner(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPartnerNotFound)
}

func (r *postgresDirectoryRepository) ListPartners(ctx context.Context) ([]models.Partner, error) {
	query := `SELECT id, name, website, tier, logo_key, created_at FROM partners ORDER BY tier ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := make([]models.Partner, 0)
	for rows.Next() {
		var p models.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Website, &p.Tier, &p.LogoKey, &p.CreatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

func (r *postgresDirectoryRepository) CreateCommitteeMember(ctx context.Context, m *models.CommitteeMember) error {
	query := `
		INSERT INTO committee_members (name, title, ordering, photo_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, m.Name, m.Title, m.Ordering, m.PhotoKey).
		Scan(&m.ID, &m.CreatedAt)
}

func (r *postgresDirectoryRepository) UpdateCommitteeMember(ctx context.Context, m *models.CommitteeMember) error {
	query := `UPDATE committee_members SET name = $1, title = $2, ordering = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, m.Name, m.Title, m.Ordering, m.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCommitteeMemberNotFound)
}

func (r *postgresDirectoryRepository) DeleteCommitteeMember(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM committee_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCommitteeMemberNotFound)
}

func (r *postgresDirectoryRepository) ListCommitteeMembers(ctx context.Context) ([]models.CommitteeMember, error) {
	query := `SELECT id, name, title, ordering, photo_key, created_at FROM committee_members ORDER BY ordering ASC, name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.CommitteeMember, 0)
	for rows.Next() {
		var m models.CommitteeMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Title, &m.Ordering, &m.PhotoKey, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresDirectoryRepository) CreateReferee(ctx context.Context, ref *models.Referee) error {
	query := `
		INSERT INTO referees (name, grade, photo_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, ref.Name, ref.Grade, ref.PhotoKey).
		Scan(&ref.ID, &ref.CreatedAt)
}

func (r *postgresDirectoryRepository) UpdateReferee(ctx context.Context, ref *models.Referee) error {
	query := `UPDATE referees SET name = $1, grade = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, ref.Name, ref.Grade, ref.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRefereeNotFound)
}

func (r *postgresDirectoryRepository) DeleteReferee(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM referees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRefereeNotFound)
}

func (r *postgresDirectoryRepository) ListReferees(ctx context.Context) ([]models.Referee, error) {
	query := `SELECT id, name, grade, photo_key, created_at FROM referees ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referees := make([]models.Referee, 0)
	for rows.Next() {
		var ref models.Referee
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Grade, &ref.PhotoKey, &ref.CreatedAt); err != nil {
			return nil, err
		}
		referees = append(referees, ref)
	}
	return referees, rows.Err()
}
