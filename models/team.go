package models

import "time"

// Division партиционирует лигу по полу; таблица считается независимо для каждого дивизиона.
type Division string

const (
	DivisionMen   Division = "men"
	DivisionWomen Division = "women"
)

func (d Division) Valid() bool {
	return d == DivisionMen || d == DivisionWomen
}

type Team struct {
	ID             int      `json:"id" db:"id"`
	Name           string   `json:"name" db:"name"`
	City           string   `json:"city" db:"city"`
	Division       Division `json:"division" db:"division"`
	PrimaryColor   string   `json:"primary_color" db:"primary_color"`
	SecondaryColor string   `json:"secondary_color" db:"secondary_color"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую).
	Roster []RosterPlayer `json:"roster,omitempty" db:"-"`
	Staff  []CoachStaff   `json:"staff,omitempty" db:"-"`
}

// RosterPlayer принадлежит ровно одной команде. Jersey уникален внутри команды
// и используется как ключ сортировки состава.
type RosterPlayer struct {
	ID          int    `json:"id" db:"id"`
	TeamID      int    `json:"team_id" db:"team_id"`
	Name        string `json:"name" db:"name"`
	Jersey      int    `json:"jersey" db:"jersey"`
	Position    string `json:"position" db:"position"`
	HeightCM    int    `json:"height_cm" db:"height_cm"`
	Nationality string `json:"nationality" db:"nationality"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`

	// Season per-game snapshot, maintained by admins.
	PPG float64 `json:"ppg" db:"ppg"`
	RPG float64 `json:"rpg" db:"rpg"`
	APG float64 `json:"apg" db:"apg"`
	BPG float64 `json:"bpg" db:"bpg"`
	SPG float64 `json:"spg" db:"spg"`

	// Set only when a verification request is approved. The player's own Name
	// is never overwritten with account data.
	LinkedUserID   *int       `json:"linked_user_id,omitempty" db:"linked_user_id"`
	LinkedUserName *string    `json:"linked_user_name,omitempty" db:"linked_user_name"`
	LinkedAt       *time.Time `json:"linked_at,omitempty" db:"linked_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type StaffRole string

const (
	StaffRoleHeadCoach StaffRole = "head_coach"
	StaffRoleAssistant StaffRole = "assistant_coach"
	StaffRoleStaff     StaffRole = "staff"
)

type CoachStaff struct {
	ID     int       `json:"id" db:"id"`
	TeamID int       `json:"team_id" db:"team_id"`
	Name   string    `json:"name" db:"name"`
	Role   StaffRole `json:"role" db:"role"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`

	LinkedUserID   *int       `json:"linked_user_id,omitempty" db:"linked_user_id"`
	LinkedUserName *string    `json:"linked_user_name,omitempty" db:"linked_user_name"`
	LinkedAt       *time.Time `json:"linked_at,omitempty" db:"linked_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
