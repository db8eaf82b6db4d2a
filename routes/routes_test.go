package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landrytower/liprobakin/handlers"
	"github.com/landrytower/liprobakin/middleware"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/services"
)

var testSecret = []byte("routes-test-secret")

type fakeAdminService struct {
	services.AdminService
	admins map[int]*models.AdminUser
}

func (f *fakeAdminService) GetByID(_ context.Context, adminID int) (*models.AdminUser, error) {
	admin, ok := f.admins[adminID]
	if !ok {
		return nil, services.ErrAdminNotFound
	}
	cp := *admin
	return &cp, nil
}

type fakeDirectoryService struct {
	services.DirectoryService
	created []services.CommitteeMemberInput
}

func (f *fakeDirectoryService) CreateCommitteeMember(_ context.Context, input services.CommitteeMemberInput) (*models.CommitteeMember, error) {
	f.created = append(f.created, input)
	return &models.CommitteeMember{ID: len(f.created), Name: input.Name, Title: input.Title}, nil
}

func adminWithRoles(id int, roles ...models.AdminRole) *models.AdminUser {
	return &models.AdminUser{
		ID:          id,
		FullName:    "Test Admin",
		Active:      true,
		Roles:       roles,
		Permissions: models.MergePermissions(roles),
	}
}

func adminToken(t *testing.T, adminID int) string {
	t.Helper()
	claims := middleware.NewClaims(adminID, middleware.KindAdmin, "Test Admin")
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	claims["iat"] = time.Now().Unix()
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return tokenString
}

// Исполком ведёт venue_manager; partner_manager к нему доступа не имеет.
func TestCommitteeRoutesGatedByManageVenues(t *testing.T) {
	adminSvc := &fakeAdminService{admins: map[int]*models.AdminUser{
		1: adminWithRoles(1, models.RoleVenueManager),
		2: adminWithRoles(2, models.RolePartnerManager),
	}}
	dir := &fakeDirectoryService{}
	router := InitRoutes(Handlers{
		Directory: handlers.NewDirectoryHandler(dir),
	}, adminSvc, testSecret)

	post := func(adminID int) *httptest.ResponseRecorder {
		body := strings.NewReader(`{"name":"M. Kovar","title":"Secretary","ordering":1}`)
		req := httptest.NewRequest(http.MethodPost, "/committee/", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+adminToken(t, adminID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post(1)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, dir.created, 1)
	assert.Equal(t, "M. Kovar", dir.created[0].Name)

	rec = post(2)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, dir.created, 1)
}
