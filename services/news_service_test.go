package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/translate"
)

type fakeNewsRepo struct {
	repositories.NewsRepository
	articles     map[int]*models.NewsArticle
	translations int
}

func (f *fakeNewsRepo) Create(_ context.Context, article *models.NewsArticle) error {
	article.ID = len(f.articles) + 1
	cp := *article
	f.articles[article.ID] = &cp
	return nil
}

func (f *fakeNewsRepo) GetByID(_ context.Context, id int) (*models.NewsArticle, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, repositories.ErrNewsNotFound
	}
	cp := *article
	return &cp, nil
}

func (f *fakeNewsRepo) Update(_ context.Context, article *models.NewsArticle) error {
	if _, ok := f.articles[article.ID]; !ok {
		return repositories.ErrNewsNotFound
	}
	cp := *article
	f.articles[article.ID] = &cp
	return nil
}

func (f *fakeNewsRepo) SetTranslation(_ context.Context, id int, title, body, lang string) error {
	article, ok := f.articles[id]
	if !ok {
		return repositories.ErrNewsNotFound
	}
	f.translations++
	article.TranslatedTitle = &title
	article.TranslatedBody = &body
	article.TranslationLang = &lang
	return nil
}

type failingTranslator struct{}

func (failingTranslator) Translate(context.Context, string, string) (string, error) {
	return "", errors.New("translate: upstream unavailable")
}

type fixedTranslator struct{ out string }

func (t fixedTranslator) Translate(context.Context, string, string) (string, error) {
	return t.out, nil
}

func newNewsFixture(translator translate.Translator) (*fakeNewsRepo, NewsService) {
	repo := &fakeNewsRepo{articles: map[int]*models.NewsArticle{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, NewNewsService(repo, &fakeAuditRepo{}, nil, translator, logger)
}

// Сбой переводчика не должен мешать сохранению: статья остаётся на
// исходном языке, поля перевода пустые.
func TestCreateKeepsOriginalTextWhenTranslationFails(t *testing.T) {
	repo, svc := newNewsFixture(failingTranslator{})

	article, err := svc.Create(context.Background(), 100, NewsInput{
		Title:       "Season tips off Saturday",
		Body:        "The men's division opens with two games.",
		TranslateTo: "ru",
	})
	require.NoError(t, err)

	assert.Equal(t, "Season tips off Saturday", article.Title)
	assert.Nil(t, article.TranslatedTitle)
	assert.Nil(t, article.TranslatedBody)
	assert.Nil(t, article.TranslationLang)
	assert.Equal(t, 0, repo.translations)

	stored := repo.articles[article.ID]
	require.NotNil(t, stored)
	assert.Nil(t, stored.TranslatedTitle)
}

func TestUpdateKeepsOriginalTextWhenTranslationFails(t *testing.T) {
	repo, svc := newNewsFixture(failingTranslator{})
	repo.articles[1] = &models.NewsArticle{ID: 1, Title: "Old title", Body: "Old body", AuthorID: 100}

	article, err := svc.Update(context.Background(), 1, NewsInput{
		Title:       "New title",
		Body:        "New body",
		TranslateTo: "ru",
	})
	require.NoError(t, err)

	assert.Equal(t, "New title", article.Title)
	assert.Nil(t, article.TranslatedTitle)
	assert.Nil(t, article.TranslatedBody)
	assert.Equal(t, 0, repo.translations)
}

func TestCreateStoresTranslationWhenTranslatorSucceeds(t *testing.T) {
	repo, svc := newNewsFixture(fixedTranslator{out: "перевод"})

	article, err := svc.Create(context.Background(), 100, NewsInput{
		Title:       "Season tips off Saturday",
		Body:        "The men's division opens with two games.",
		TranslateTo: "ru",
	})
	require.NoError(t, err)

	require.NotNil(t, article.TranslatedTitle)
	assert.Equal(t, "перевод", *article.TranslatedTitle)
	require.NotNil(t, article.TranslationLang)
	assert.Equal(t, "ru", *article.TranslationLang)
	assert.Equal(t, 1, repo.translations)
}
