package models

import "time"

// AuditAction — тег действия в журнале аудита.
type AuditAction string

const (
	AuditAdminCreated         AuditAction = "admin_created"
	AuditAdminRolesUpdated    AuditAction = "admin_roles_updated"
	AuditAdminDeactivated     AuditAction = "admin_deactivated"
	AuditAdminDeleted         AuditAction = "admin_deleted"
	AuditAdminPasswordChanged AuditAction = "admin_password_changed"
	AuditVerificationReviewed AuditAction = "verification_reviewed"
	AuditTeamCreated          AuditAction = "team_created"
	AuditTeamUpdated          AuditAction = "team_updated"
	AuditGameScheduled        AuditAction = "game_scheduled"
	AuditGameCompleted        AuditAction = "game_completed"
	AuditGameCanceled         AuditAction = "game_canceled"
	AuditNewsPublished        AuditAction = "news_published"
)

// AuditLogEntry — append-only запись. Никогда не изменяется и не удаляется.
type AuditLogEntry struct {
	ID         string            `json:"id" db:"id"` // uuid
	Action     AuditAction       `json:"action" db:"action"`
	ActorID    int               `json:"actor_id" db:"actor_id"`
	ActorName  string            `json:"actor_name" db:"actor_name"`
	TargetType string            `json:"target_type" db:"target_type"`
	TargetID   string            `json:"target_id" db:"target_id"`
	TargetName string            `json:"target_name" db:"target_name"`
	Detail     map[string]string `json:"detail,omitempty" db:"detail"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}

type AuditLogFilter struct {
	Action *AuditAction
	Page   int
	Limit  int
}
