package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePermissionsEmpty(t *testing.T) {
	assert.Equal(t, AdminPermissions{}, MergePermissions(nil))
	assert.Equal(t, AdminPermissions{}, MergePermissions([]AdminRole{}))
}

func TestMergePermissionsMasterGrantsEverything(t *testing.T) {
	p := MergePermissions([]AdminRole{RoleMaster})
	assert.Equal(t, AdminPermissions{
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
	}, p)
}

func TestMergePermissionsUnknownRolesIgnored(t *testing.T) {
	assert.Equal(t, AdminPermissions{}, MergePermissions([]AdminRole{"superhero", ""}))
	assert.Equal(t,
		MergePermissions([]AdminRole{RoleNewsEditor}),
		MergePermissions([]AdminRole{RoleNewsEditor, "superhero"}))
}

func TestMergePermissionsSingleRoles(t *testing.T) {
	tests := []struct {
		role AdminRole
		want AdminPermissions
	}{
		{RoleNewsEditor, AdminPermissions{ManageNews: true}},
		{RoleGameScheduler, AdminPermissions{ScheduleGames: true, RecordResults: true}},
		{RoleTeamManager, AdminPermissions{ManageTeams: true, ManageRosters: true}},
		{RoleRefereeManager, AdminPermissions{ManageReferees: true}},
		{RoleVenueManager, AdminPermissions{ManageVenues: true}},
		{RolePartnerManager, AdminPermissions{ManagePartners: true}},
		{RoleLeagueManager, AdminPermissions{ManageTeams: true, ManageRosters: true, ReviewVerifications: true, ViewAuditLogs: true}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, MergePermissions([]AdminRole{tt.role}))
		})
	}
}

func orPermissions(a, b AdminPermissions) AdminPermissions {
	return AdminPermissions{
		ManageAdmins:        a.ManageAdmins || b.ManageAdmins,
		ManageTeams:         a.ManageTeams || b.ManageTeams,
		ManageRosters:       a.ManageRosters || b.ManageRosters,
		ScheduleGames:       a.ScheduleGames || b.ScheduleGames,
		RecordResults:       a.RecordResults || b.RecordResults,
		ReviewVerifications: a.ReviewVerifications || b.ReviewVerifications,
		ManageNews:          a.ManageNews || b.ManageNews,
		ManageReferees:      a.ManageReferees || b.ManageReferees,
		ManageVenues:        a.ManageVenues || b.ManageVenues,
		ManagePartners:      a.ManagePartners || b.ManagePartners,
		ViewAuditLogs:       a.ViewAuditLogs || b.ViewAuditLogs,
	}
}

// MergePermissions(a ++ b) покапабилитно равно OR(MergePermissions(a), MergePermissions(b)).
func TestMergePermissionsConcatEqualsOr(t *testing.T) {
	all := []AdminRole{
		RoleMaster, RoleLeagueManager, RoleNewsEditor, RoleGameScheduler,
		RoleTeamManager, RoleRefereeManager, RoleVenueManager, RolePartnerManager, "unknown",
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		a := make([]AdminRole, rng.Intn(4))
		b := make([]AdminRole, rng.Intn(4))
		for j := range a {
			a[j] = all[rng.Intn(len(all))]
		}
		for j := range b {
			b[j] = all[rng.Intn(len(all))]
		}

		concat := append(append([]AdminRole{}, a...), b...)
		assert.Equal(t, orPermissions(MergePermissions(a), MergePermissions(b)), MergePermissions(concat))
	}
}

func TestMergePermissionsOrderIndependent(t *testing.T) {
	a := MergePermissions([]AdminRole{RoleNewsEditor, RoleGameScheduler, RoleTeamManager})
	b := MergePermissions([]AdminRole{RoleTeamManager, RoleNewsEditor, RoleGameScheduler})
	assert.Equal(t, a, b)
}
