package models

import "time"

// AdminRole — тег роли администратора. Один админ может держать несколько тегов.
type AdminRole string

const (
	RoleMaster         AdminRole = "master"
	RoleLeagueManager  AdminRole = "league_manager"
	RoleNewsEditor     AdminRole = "news_editor"
	RoleGameScheduler  AdminRole = "game_scheduler"
	RoleTeamManager    AdminRole = "team_manager"
	RoleRefereeManager AdminRole = "referee_manager"
	RoleVenueManager   AdminRole = "venue_manager"
	RolePartnerManager AdminRole = "partner_manager"
)

// AdminPermissions — фиксированный набор способностей, выводимый из набора ролей.
// Хранится вместе с админом и пересчитывается при каждом изменении ролей; оба
// пути обязаны давать одинаковый результат для одинакового входа.
type AdminPermissions struct {
	ManageAdmins        bool `json:"manage_admins"`
	ManageTeams         bool `json:"manage_teams"`
	ManageRosters       bool `json:"manage_rosters"`
	ScheduleGames       bool `json:"schedule_games"`
	RecordResults       bool `json:"record_results"`
	ReviewVerifications bool `json:"review_verifications"`
	ManageNews          bool `json:"manage_news"`
	ManageReferees      bool `json:"manage_referees"`
	ManageVenues        bool `json:"manage_venues"`
	ManagePartners      bool `json:"manage_partners"`
	ViewAuditLogs       bool `json:"view_audit_logs"`
}

// rolePermissions — статическая таблица роль -> способности.
var rolePermissions = map[AdminRole]AdminPermissions{
	RoleMaster: {
		ManageAdmins:        true,
		ManageTeams:         true,
		ManageRosters:       true,
		ScheduleGames:       true,
		RecordResults:       true,
		ReviewVerifications: true,
		ManageNews:          true,
		ManageReferees:      true,
		ManageVenues:        true,
		ManagePartners:      true,
		ViewAuditLogs:       true,
	},
	RoleLeagueManager: {
		ManageTeams:         true,
		ManageRosters:       true,
		ReviewVerifications: true,
		ViewAuditLogs:       true,
	},
	RoleNewsEditor: {
		ManageNews: true,
	},
	RoleGameScheduler: {
		ScheduleGames: true,
		RecordResults: true,
	},
	RoleTeamManager: {
		ManageTeams:   true,
		ManageRosters: true,
	},
	RoleRefereeManager: {
		ManageReferees: true,
	},
	RoleVenueManager: {
		ManageVenues: true,
	},
	RolePartnerManager: {
		ManagePartners: true,
	},
}

// MergePermissions сводит набор ролей в один AdminPermissions: способность
// включена, если её даёт хотя бы одна из ролей. Неизвестные теги игнорируются.
// Чистая функция, порядок ролей не имеет значения.
func MergePermissions(roles []AdminRole) AdminPermissions {
	var merged AdminPermissions
	for _, role := range roles {
		p, ok := rolePermissions[role]
		if !ok {
			continue
		}
		merged.ManageAdmins = merged.ManageAdmins || p.ManageAdmins
		merged.ManageTeams = merged.ManageTeams || p.ManageTeams
		merged.ManageRosters = merged.ManageRosters || p.ManageRosters
		merged.ScheduleGames = merged.ScheduleGames || p.ScheduleGames
		merged.RecordResults = merged.RecordResults || p.RecordResults
		merged.ReviewVerifications = merged.ReviewVerifications || p.ReviewVerifications
		merged.ManageNews = merged.ManageNews || p.ManageNews
		merged.ManageReferees = merged.ManageReferees || p.ManageReferees
		merged.ManageVenues = merged.ManageVenues || p.ManageVenues
		merged.ManagePartners = merged.ManagePartners || p.ManagePartners
		merged.ViewAuditLogs = merged.ViewAuditLogs || p.ViewAuditLogs
	}
	return merged
}

type AdminUser struct {
	ID           int              `json:"id" db:"id"`
	Email        string           `json:"email" db:"email"`
	FullName     string           `json:"full_name" db:"full_name"`
	PasswordHash string           `json:"-" db:"password_hash"`
	Roles        []AdminRole      `json:"roles" db:"roles"`
	Permissions  AdminPermissions `json:"permissions" db:"permissions"`
	Active       bool             `json:"active" db:"active"`
	FirstLogin   bool             `json:"first_login" db:"first_login"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// HasRole reports whether the admin holds the given role tag.
func (a *AdminUser) HasRole(role AdminRole) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
