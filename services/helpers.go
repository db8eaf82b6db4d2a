package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/storage"
)

// populateTeamMedia проставляет публичный URL логотипа, если ключ задан.
func populateTeamMedia(team *models.Team, uploader storage.FileUploader) {
	if team == nil || uploader == nil {
		return
	}
	if team.LogoKey != nil && *team.LogoKey != "" {
		url := uploader.GetPublicURL(*team.LogoKey)
		team.LogoURL = &url
	}
	for i := range team.Roster {
		populatePlayerMedia(&team.Roster[i], uploader)
	}
	for i := range team.Staff {
		populateStaffMedia(&team.Staff[i], uploader)
	}
}

func populatePlayerMedia(player *models.RosterPlayer, uploader storage.FileUploader) {
	if player == nil || uploader == nil {
		return
	}
	if player.PhotoKey != nil && *player.PhotoKey != "" {
		url := uploader.GetPublicURL(*player.PhotoKey)
		player.PhotoURL = &url
	}
}

func populateStaffMedia(staff *models.CoachStaff, uploader storage.FileUploader) {
	if staff == nil || uploader == nil {
		return
	}
	if staff.PhotoKey != nil && *staff.PhotoKey != "" {
		url := uploader.GetPublicURL(*staff.PhotoKey)
		staff.PhotoURL = &url
	}
}

func populateNewsMedia(article *models.NewsArticle, uploader storage.FileUploader) {
	if article == nil || uploader == nil {
		return
	}
	if article.ImageKey != nil && *article.ImageKey != "" {
		url := uploader.GetPublicURL(*article.ImageKey)
		article.ImageURL = &url
	}
}

// newAuditEntry собирает запись аудита с новым uuid. CreatedAt выставляет БД.
func newAuditEntry(action models.AuditAction, actor *models.AdminUser, targetType string, targetID int, targetName string, detail map[string]string) *models.AuditLogEntry {
	entry := &models.AuditLogEntry{
		ID:         uuid.NewString(),
		Action:     action,
		TargetType: targetType,
		TargetID:   fmt.Sprintf("%d", targetID),
		TargetName: targetName,
		Detail:     detail,
	}
	if actor != nil {
		entry.ActorID = actor.ID
		entry.ActorName = actor.FullName
	}
	return entry
}

// objectKey строит ключ в хранилище вида "<prefix>/<uuid>.<ext>".
func objectKey(prefix, ext string) string {
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s.%s", prefix, uuid.NewString(), ext)
}

func timePtr(t time.Time) *time.Time { return &t }
