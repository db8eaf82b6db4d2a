package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/landrytower/liprobakin/models"
)

var ErrNewsNotFound = errors.New("news article not found")

type NewsRepository interface {
	Create(ctx context.Context, article *models.NewsArticle) error
	GetByID(ctx context.Context, id int) (*models.NewsArticle, error)
	Update(ctx context.Context, article *models.NewsArticle) error
	SetTranslation(ctx context.Context, id int, title, body, lang string) error
	SetPublished(ctx context.Context, id int, published bool) error
	SetImageKey(ctx context.Context, id int, imageKey *string) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, publishedOnly bool, page, limit int) ([]models.NewsArticle, int, error)
	CountPublished(ctx context.Context) (int, error)
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

const newsColumns = `id, title, body, translated_title, translated_body, translation_lang,
	image_key, author_id, published, created_at, updated_at`

func (r *postgresNewsRepository) scanArticle(row interface{ Scan(...interface{}) error }) (*models.NewsArticle, error) {
	var n models.NewsArticle
	err := row.Scan(
		&n.ID, &n.Title, &n.Body, &n.TranslatedTitle, &n.TranslatedBody, &n.TranslationLang,
		&n.ImageKey, &n.AuthorID, &n.Published, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *postgresNewsRepository) Create(ctx context.Context, article *models.NewsArticle) error {
	query := `
		INSERT INTO news (title, body, image_key, author_id, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		article.Title, article.Body, article.ImageKey, article.AuthorID, article.Published,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id int) (*models.NewsArticle, error) {
	query := fmt.Sprintf(`SELECT %s FROM news WHERE id = $1`, newsColumns)
	return r.scanArticle(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresNewsRepository) Update(ctx context.Context, article *models.NewsArticle) error {
	query := `UPDATE news SET title = $1, body = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, article.Title, article.Body, article.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) SetImageKey(ctx context.Context, id int, imageKey *string) error {
	query := `UPDATE news SET image_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, imageKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) SetTranslation(ctx context.Context, id int, title, body, lang string) error {
	query := `
		UPDATE news SET translated_title = $1, translated_body = $2, translation_lang = $3, updated_at = NOW()
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, title, body, lang, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) SetPublished(ctx context.Context, id int, published bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE news SET published = $1, updated_at = NOW() WHERE id = $2`, published, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) List(ctx context.Context, publishedOnly bool, page, limit int) ([]models.NewsArticle, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	where := ""
	if publishedOnly {
		where = ` WHERE published = TRUE`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`+where).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM news%s ORDER BY created_at DESC LIMIT $1 OFFSET $2`, newsColumns, where)
	rows, err := r.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles := make([]models.NewsArticle, 0)
	for rows.Next() {
		n, scanErr := r.scanArticle(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		articles = append(articles, *n)
	}
	return articles, total, rows.Err()
}

func (r *postgresNewsRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news WHERE published = TRUE`).Scan(&count)
	return count, err
}
