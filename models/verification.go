package models

import "time"

// VerificationRequest переходит ровно один раз из pending в терминальное состояние
// (approved или rejected) решением администратора и никогда не переоткрывается.
type VerificationRequest struct {
	ID     int `json:"id" db:"id"`
	UserID int `json:"user_id" db:"user_id"`

	ClaimedRole     ClaimedRole `json:"claimed_role" db:"claimed_role"`
	ClaimedTeamID   *int        `json:"claimed_team_id,omitempty" db:"claimed_team_id"`
	ClaimedPersonID *int        `json:"claimed_person_id,omitempty" db:"claimed_person_id"`

	IDImageKey *string `json:"-" db:"id_image_key"`
	IDImageURL *string `json:"id_image_url,omitempty" db:"-"`

	Status      VerificationState `json:"status" db:"status"`
	SubmittedAt time.Time         `json:"submitted_at" db:"submitted_at"`

	ReviewerID    *int       `json:"reviewer_id,omitempty" db:"reviewer_id"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewerNotes *string    `json:"reviewer_notes,omitempty" db:"reviewer_notes"`

	// Опциональные связанные данные, заполняются сервисом для списка ожидающих.
	User        *User         `json:"user,omitempty" db:"-"`
	ClaimedTeam *Team         `json:"claimed_team,omitempty" db:"-"`
	Person      *RosterPlayer `json:"person,omitempty" db:"-"`
}
