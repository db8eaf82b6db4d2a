package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/storage"
	"github.com/landrytower/liprobakin/translate"
)

type NewsService interface {
	Create(ctx context.Context, authorID int, input NewsInput) (*models.NewsArticle, error)
	Update(ctx context.Context, articleID int, input NewsInput) (*models.NewsArticle, error)
	Publish(ctx context.Context, actor *models.AdminUser, articleID int, published bool) error
	Delete(ctx context.Context, articleID int) error
	Get(ctx context.Context, articleID int) (*models.NewsArticle, error)
	List(ctx context.Context, publishedOnly bool, page, limit int) ([]models.NewsArticle, int, error)
	UploadImage(ctx context.Context, articleID int, contentType, ext string, file io.Reader) (*models.NewsArticle, error)
}

type NewsInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	// TranslateTo — целевой язык машинного перевода; пусто — без перевода.
	TranslateTo string `json:"translate_to"`
}

type newsService struct {
	newsRepo   repositories.NewsRepository
	auditRepo  repositories.AuditRepository
	uploader   storage.FileUploader
	translator translate.Translator
	logger     *slog.Logger
}

func NewNewsService(
	newsRepo repositories.NewsRepository,
	auditRepo repositories.AuditRepository,
	uploader storage.FileUploader,
	translator translate.Translator,
	logger *slog.Logger,
) NewsService {
	return &newsService{
		newsRepo:   newsRepo,
		auditRepo:  auditRepo,
		uploader:   uploader,
		translator: translator,
		logger:     logger,
	}
}

func (s *newsService) Create(ctx context.Context, authorID int, input NewsInput) (*models.NewsArticle, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrValidationFailed)
	}

	article := &models.NewsArticle{
		Title:    strings.TrimSpace(input.Title),
		Body:     input.Body,
		AuthorID: authorID,
	}
	if err := s.newsRepo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.translateArticle(ctx, article, input.TranslateTo)
	return article, nil
}

func (s *newsService) Update(ctx context.Context, articleID int, input NewsInput) (*models.NewsArticle, error) {
	article, err := s.newsRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to load article %d: %w", articleID, err)
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrValidationFailed)
	}
	article.Title = strings.TrimSpace(input.Title)
	article.Body = input.Body

	if err := s.newsRepo.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to update article %d: %w", articleID, err)
	}

	s.translateArticle(ctx, article, input.TranslateTo)
	populateNewsMedia(article, s.uploader)
	return article, nil
}

// translateArticle переводит заголовок и текст best-effort: при любом сбое
// статья остаётся с исходным текстом, ошибка только логируется.
func (s *newsService) translateArticle(ctx context.Context, article *models.NewsArticle, targetLang string) {
	if targetLang == "" || s.translator == nil {
		return
	}

	title, err := s.translator.Translate(ctx, article.Title, targetLang)
	if err != nil {
		s.logger.Warn("news translation failed, keeping original text",
			slog.Int("article_id", article.ID), slog.Any("error", err))
		return
	}
	body, err := s.translator.Translate(ctx, article.Body, targetLang)
	if err != nil {
		s.logger.Warn("news translation failed, keeping original text",
			slog.Int("article_id", article.ID), slog.Any("error", err))
		return
	}

	if err := s.newsRepo.SetTranslation(ctx, article.ID, title, body, targetLang); err != nil {
		s.logger.Warn("failed to store news translation",
			slog.Int("article_id", article.ID), slog.Any("error", err))
		return
	}
	article.TranslatedTitle = &title
	article.TranslatedBody = &body
	article.TranslationLang = &targetLang
}

func (s *newsService) Publish(ctx context.Context, actor *models.AdminUser, articleID int, published bool) error {
	article, err := s.newsRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("failed to load article %d: %w", articleID, err)
	}

	if err := s.newsRepo.SetPublished(ctx, articleID, published); err != nil {
		return fmt.Errorf("failed to set published flag on article %d: %w", articleID, err)
	}

	if published {
		entry := newAuditEntry(models.AuditNewsPublished, actor, "news", articleID, article.Title, nil)
		if err := s.auditRepo.Append(ctx, nil, entry); err != nil {
			return fmt.Errorf("failed to record publication audit: %w", err)
		}
	}
	return nil
}

func (s *newsService) Delete(ctx context.Context, articleID int) error {
	article, err := s.newsRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("failed to load article %d: %w", articleID, err)
	}

	if err := s.newsRepo.Delete(ctx, articleID); err != nil {
		return fmt.Errorf("failed to delete article %d: %w", articleID, err)
	}
	if article.ImageKey != nil && *article.ImageKey != "" {
		_ = s.uploader.Delete(ctx, *article.ImageKey)
	}
	return nil
}

func (s *newsService) Get(ctx context.Context, articleID int) (*models.NewsArticle, error) {
	article, err := s.newsRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to load article %d: %w", articleID, err)
	}
	populateNewsMedia(article, s.uploader)
	return article, nil
}

func (s *newsService) List(ctx context.Context, publishedOnly bool, page, limit int) ([]models.NewsArticle, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	articles, total, err := s.newsRepo.List(ctx, publishedOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	for i := range articles {
		populateNewsMedia(&articles[i], s.uploader)
	}
	return articles, total, nil
}

func (s *newsService) UploadImage(ctx context.Context, articleID int, contentType, ext string, file io.Reader) (*models.NewsArticle, error) {
	article, err := s.newsRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to load article %d: %w", articleID, err)
	}

	oldKey := article.ImageKey
	key := objectKey("news-images", ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload article image: %w", err)
	}
	article.ImageKey = &key
	if err := s.newsRepo.SetImageKey(ctx, articleID, &key); err != nil {
		return nil, fmt.Errorf("failed to store article image key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	populateNewsMedia(article, s.uploader)
	return article, nil
}
