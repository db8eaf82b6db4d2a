package services

import (
	"context"
	"testing"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	for _, a := range f.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrAdminNotFound
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *models.AdminUser) error {
	for _, a := range f.admins {
		if a.Email == admin.Email {
			return repositories.ErrAdminEmailConflict
		}
	}
	admin.ID = len(f.admins) + 1000
	cp := *admin
	f.admins[admin.ID] = &cp
	return nil
}

func (f *fakeAdminRepo) UpdateRoles(_ context.Context, id int, roles []models.AdminRole, permissions models.AdminPermissions) error {
	a, ok := f.admins[id]
	if !ok {
		return repositories.ErrAdminNotFound
	}
	a.Roles = roles
	a.Permissions = permissions
	return nil
}

func (f *fakeAdminRepo) SetActive(_ context.Context, id int, active bool) error {
	a, ok := f.admins[id]
	if !ok {
		return repositories.ErrAdminNotFound
	}
	a.Active = active
	return nil
}

func (f *fakeAdminRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.admins[id]; !ok {
		return repositories.ErrAdminNotFound
	}
	delete(f.admins, id)
	return nil
}

func newAdminFixture() (*fakeAdminRepo, *fakeAuditRepo, AdminService) {
	masterRoles := []models.AdminRole{models.RoleMaster}
	editorRoles := []models.AdminRole{models.RoleNewsEditor}
	admins := &fakeAdminRepo{admins: map[int]*models.AdminUser{
		1: {
			ID: 1, Email: "master@liprobakin.ru", FullName: "Head Office", Active: true,
			Roles: masterRoles, Permissions: models.MergePermissions(masterRoles),
		},
		2: {
			ID: 2, Email: "editor@liprobakin.ru", FullName: "Editor", Active: true,
			Roles: editorRoles, Permissions: models.MergePermissions(editorRoles),
		},
	}}
	audit := &fakeAuditRepo{}
	svc := NewAdminService(admins, audit, nil, nil, nil, nil, nil)
	return admins, audit, svc
}

func TestAdminManagementRequiresMaster(t *testing.T) {
	_, _, svc := newAdminFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, 2, CreateAdminInput{
		Email: "new@liprobakin.ru", FullName: "New Admin", Password: "temporary1",
		Roles: []models.AdminRole{models.RoleGameScheduler},
	})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = svc.UpdateRoles(ctx, 2, 1, []models.AdminRole{models.RoleNewsEditor})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	err = svc.Delete(ctx, 2, 1)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestAdminCreateMergesPermissionsAndAudits(t *testing.T) {
	admins, audit, svc := newAdminFixture()

	admin, err := svc.Create(context.Background(), 1, CreateAdminInput{
		Email:    "scheduler@liprobakin.ru",
		FullName: "Scheduler",
		Password: "temporary1",
		Roles:    []models.AdminRole{models.RoleGameScheduler, models.RoleNewsEditor},
	})
	require.NoError(t, err)

	assert.True(t, admin.FirstLogin)
	assert.True(t, admin.Permissions.ScheduleGames)
	assert.True(t, admin.Permissions.RecordResults)
	assert.True(t, admin.Permissions.ManageNews)
	assert.False(t, admin.Permissions.ManageAdmins)
	assert.Empty(t, admin.PasswordHash)

	// Пароль сохранён хешем, не открытым текстом.
	stored := admins.admins[admin.ID]
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "temporary1", stored.PasswordHash)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditAdminCreated, audit.entries[0].Action)
	assert.Equal(t, 1, audit.entries[0].ActorID)
}

func TestAdminSelfAndMasterGuards(t *testing.T) {
	_, _, svc := newAdminFixture()
	ctx := context.Background()

	// Мастер не может удалить или отключить сам себя.
	assert.ErrorIs(t, svc.Delete(ctx, 1, 1), ErrSelfDeletion)
	assert.ErrorIs(t, svc.SetActive(ctx, 1, 1, false), ErrSelfDeletion)

	// Обычного админа удалить можно.
	require.NoError(t, svc.Delete(ctx, 1, 2))
}

func TestAdminLoginChecks(t *testing.T) {
	admins, _, svc := newAdminFixture()
	ctx := context.Background()

	_, err := svc.Login(ctx, models.Credentials{Email: "nobody@liprobakin.ru", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	admins.admins[2].Active = false
	_, err = svc.Login(ctx, models.Credentials{Email: "editor@liprobakin.ru", Password: "x"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}
