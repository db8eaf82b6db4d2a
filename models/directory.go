package models

import "time"

// NewsArticle может нести машинный перевод; перевод best-effort и никогда
// не блокирует сохранение статьи.
type NewsArticle struct {
	ID    int    `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
	Body  string `json:"body" db:"body"`

	TranslatedTitle *string `json:"translated_title,omitempty" db:"translated_title"`
	TranslatedBody  *string `json:"translated_body,omitempty" db:"translated_body"`
	TranslationLang *string `json:"translation_lang,omitempty" db:"translation_lang"`

	ImageKey *string `json:"-" db:"image_key"`
	ImageURL *string `json:"image_url,omitempty" db:"-"`

	AuthorID  int       `json:"author_id" db:"author_id"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Partner struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Website string `json:"website" db:"website"`
	Tier    string `json:"tier" db:"tier"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CommitteeMember struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Title    string `json:"title" db:"title"`
	Ordering int    `json:"ordering" db:"ordering"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Referee struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Grade string `json:"grade" db:"grade"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DashboardStats — счётчики для главной страницы админки.
type DashboardStats struct {
	TeamsTotal           int `json:"teams_total"`
	GamesTotal           int `json:"games_total"`
	CompletedGames       int `json:"completed_games"`
	UsersTotal           int `json:"users_total"`
	PendingVerifications int `json:"pending_verifications"`
	PublishedNews        int `json:"published_news"`
}
