package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фейки встраивают интерфейс: неожиданный вызов падает с nil panic,
// что сразу выдаёт тест, пошедший не тем путём.

type fakeVerificationRepo struct {
	repositories.VerificationRepository
	requests map[int]*models.VerificationRequest

	reviewed   []int
	reviewedAt time.Time
	reviewerID int
	decision   models.VerificationState
}

func (f *fakeVerificationRepo) GetPendingForUpdate(_ context.Context, _ repositories.SQLExecutor, id int) (*models.VerificationRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, repositories.ErrVerificationNotFound
	}
	if req.Status != models.VerificationPending {
		return nil, repositories.ErrVerificationNotPending
	}
	cp := *req
	return &cp, nil
}

func (f *fakeVerificationRepo) MarkReviewed(_ context.Context, _ repositories.SQLExecutor, id int, decision models.VerificationState, reviewerID int, reviewedAt time.Time, _ string) error {
	req, ok := f.requests[id]
	if !ok {
		return repositories.ErrVerificationNotFound
	}
	if req.Status != models.VerificationPending {
		return repositories.ErrVerificationNotPending
	}
	req.Status = decision
	f.reviewed = append(f.reviewed, id)
	f.reviewedAt = reviewedAt
	f.reviewerID = reviewerID
	f.decision = decision
	return nil
}

func (f *fakeVerificationRepo) GetPendingByUser(_ context.Context, userID int) (*models.VerificationRequest, error) {
	for _, req := range f.requests {
		if req.UserID == userID && req.Status == models.VerificationPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, repositories.ErrVerificationNotFound
}

func (f *fakeVerificationRepo) Create(_ context.Context, req *models.VerificationRequest) error {
	req.ID = len(f.requests) + 1
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

type appliedReview struct {
	userID           int
	status           models.VerificationState
	role             *models.ClaimedRole
	teamID           *int
	linkedPlayerID   *int
	linkedPlayerName *string
}

type fakeUserRepo struct {
	repositories.UserRepository
	users   map[int]*models.User
	applied []appliedReview
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) ApplyReview(_ context.Context, _ repositories.SQLExecutor, userID int, status models.VerificationState, role *models.ClaimedRole, teamID, linkedPlayerID *int, linkedPlayerName *string) error {
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	// Как и настоящий запрос, фейк не трогает first_name/last_name.
	user.VerificationStatus = &status
	user.Role = role
	user.TeamID = teamID
	user.LinkedPlayerID = linkedPlayerID
	user.LinkedPlayerName = linkedPlayerName
	f.applied = append(f.applied, appliedReview{userID, status, role, teamID, linkedPlayerID, linkedPlayerName})
	return nil
}

type fakeRosterRepo struct {
	repositories.RosterRepository
	players map[int]*models.RosterPlayer
	staff   map[int]*models.CoachStaff

	linkedPlayers []int
	linkedStaff   []int
}

func (f *fakeRosterRepo) GetPlayerByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.RosterPlayer, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrRosterPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRosterRepo) LinkUser(_ context.Context, _ repositories.SQLExecutor, playerID, userID int, userName string, linkedAt time.Time) error {
	p, ok := f.players[playerID]
	if !ok {
		return repositories.ErrRosterPlayerNotFound
	}
	p.LinkedUserID = &userID
	p.LinkedUserName = &userName
	p.LinkedAt = &linkedAt
	f.linkedPlayers = append(f.linkedPlayers, playerID)
	return nil
}

func (f *fakeRosterRepo) GetStaffByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.CoachStaff, error) {
	st, ok := f.staff[id]
	if !ok {
		return nil, repositories.ErrCoachStaffNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeRosterRepo) LinkStaffUser(_ context.Context, _ repositories.SQLExecutor, staffID, userID int, userName string, linkedAt time.Time) error {
	st, ok := f.staff[staffID]
	if !ok {
		return repositories.ErrCoachStaffNotFound
	}
	st.LinkedUserID = &userID
	st.LinkedUserName = &userName
	st.LinkedAt = &linkedAt
	f.linkedStaff = append(f.linkedStaff, staffID)
	return nil
}

type fakeAdminRepo struct {
	repositories.AdminRepository
	admins map[int]*models.AdminUser
}

func (f *fakeAdminRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.AdminUser, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, repositories.ErrAdminNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeAuditRepo struct {
	repositories.AuditRepository
	entries []models.AuditLogEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, _ repositories.SQLExecutor, entry *models.AuditLogEntry) error {
	if entry.ID == "" || entry.Action == "" {
		return repositories.ErrAuditEntryInvalid
	}
	f.entries = append(f.entries, *entry)
	return nil
}

type verificationFixture struct {
	svc          *verificationService
	verification *fakeVerificationRepo
	users        *fakeUserRepo
	roster       *fakeRosterRepo
	admins       *fakeAdminRepo
	audit        *fakeAuditRepo
	clock        clockwork.Clock
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()

	teamID := 3
	personID := 11

	f := &verificationFixture{
		verification: &fakeVerificationRepo{requests: map[int]*models.VerificationRequest{
			1: {
				ID:              1,
				UserID:          7,
				ClaimedRole:     models.ClaimedRolePlayer,
				ClaimedTeamID:   &teamID,
				ClaimedPersonID: &personID,
				Status:          models.VerificationPending,
			},
		}},
		users: &fakeUserRepo{users: map[int]*models.User{
			7: {ID: 7, FirstName: "Dana", LastName: "Moroz", Email: "dana@example.com"},
		}},
		roster: &fakeRosterRepo{
			players: map[int]*models.RosterPlayer{
				11: {ID: 11, TeamID: 3, Name: "D. Moroz", Jersey: 14},
			},
			staff: map[int]*models.CoachStaff{
				21: {ID: 21, TeamID: 3, Name: "P. Horak", Role: models.StaffRoleHeadCoach},
			},
		},
		admins: &fakeAdminRepo{admins: map[int]*models.AdminUser{
			100: {
				ID: 100, FullName: "League Manager", Active: true,
				Roles:       []models.AdminRole{models.RoleLeagueManager},
				Permissions: models.MergePermissions([]models.AdminRole{models.RoleLeagueManager}),
			},
			101: {
				ID: 101, FullName: "News Editor", Active: true,
				Roles:       []models.AdminRole{models.RoleNewsEditor},
				Permissions: models.MergePermissions([]models.AdminRole{models.RoleNewsEditor}),
			},
			102: {
				ID: 102, FullName: "Disabled Manager", Active: false,
				Roles:       []models.AdminRole{models.RoleLeagueManager},
				Permissions: models.MergePermissions([]models.AdminRole{models.RoleLeagueManager}),
			},
		}},
		audit: &fakeAuditRepo{},
		clock: clockwork.NewFakeClockAt(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)),
	}

	f.svc = NewVerificationService(
		nil, f.verification, f.users, f.roster, nil, f.admins, f.audit, nil, f.clock,
	).(*verificationService)
	return f
}

func TestReviewApprovalLinksBothSidesAndPreservesNames(t *testing.T) {
	f := newVerificationFixture(t)
	reviewer := f.admins.admins[100]

	req, err := f.svc.reviewInTx(context.Background(), nil, reviewer, 1, ReviewInput{
		Decision: models.VerificationApproved,
		Notes:    "документы в порядке",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, req.Status)
	require.NotNil(t, req.ReviewedAt)
	assert.Equal(t, f.clock.Now(), *req.ReviewedAt)

	// Сторона аккаунта: статус, роль и привязка выставлены, имя регистрации цело.
	user := f.users.users[7]
	assert.Equal(t, "Dana", user.FirstName)
	assert.Equal(t, "Moroz", user.LastName)
	require.NotNil(t, user.LinkedPlayerID)
	assert.Equal(t, 11, *user.LinkedPlayerID)
	require.NotNil(t, user.LinkedPlayerName)
	assert.Equal(t, "D. Moroz", *user.LinkedPlayerName)
	require.NotNil(t, user.Role)
	assert.Equal(t, models.ClaimedRolePlayer, *user.Role)

	// Сторона ростера: имя игрока не перезаписано именем аккаунта.
	player := f.roster.players[11]
	assert.Equal(t, "D. Moroz", player.Name)
	require.NotNil(t, player.LinkedUserID)
	assert.Equal(t, 7, *player.LinkedUserID)
	require.NotNil(t, player.LinkedUserName)
	assert.Equal(t, "Dana Moroz", *player.LinkedUserName)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, models.AuditVerificationReviewed, f.audit.entries[0].Action)
	assert.Equal(t, 100, f.audit.entries[0].ActorID)
}

func TestReviewApprovalForCoachLinksStaff(t *testing.T) {
	f := newVerificationFixture(t)
	teamID := 3
	staffID := 21
	f.verification.requests[2] = &models.VerificationRequest{
		ID:              2,
		UserID:          7,
		ClaimedRole:     models.ClaimedRoleCoach,
		ClaimedTeamID:   &teamID,
		ClaimedPersonID: &staffID,
		Status:          models.VerificationPending,
	}

	_, err := f.svc.reviewInTx(context.Background(), nil, f.admins.admins[100], 2, ReviewInput{
		Decision: models.VerificationApproved,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{21}, f.roster.linkedStaff)
	assert.Empty(t, f.roster.linkedPlayers)
	st := f.roster.staff[21]
	assert.Equal(t, "P. Horak", st.Name)
	require.NotNil(t, st.LinkedUserName)
	assert.Equal(t, "Dana Moroz", *st.LinkedUserName)
}

func TestReviewRejectionLeavesNoLinkage(t *testing.T) {
	f := newVerificationFixture(t)

	req, err := f.svc.reviewInTx(context.Background(), nil, f.admins.admins[100], 1, ReviewInput{
		Decision: models.VerificationRejected,
		Notes:    "фото не читается",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, req.Status)

	user := f.users.users[7]
	require.NotNil(t, user.VerificationStatus)
	assert.Equal(t, models.VerificationRejected, *user.VerificationStatus)
	assert.Nil(t, user.LinkedPlayerID)
	assert.Nil(t, user.LinkedPlayerName)
	assert.Nil(t, user.Role)

	// Ростер не тронут вовсе.
	assert.Empty(t, f.roster.linkedPlayers)
	assert.Nil(t, f.roster.players[11].LinkedUserID)
}

func TestReviewIsSingleShot(t *testing.T) {
	f := newVerificationFixture(t)
	reviewer := f.admins.admins[100]

	_, err := f.svc.reviewInTx(context.Background(), nil, reviewer, 1, ReviewInput{Decision: models.VerificationApproved})
	require.NoError(t, err)

	_, err = f.svc.reviewInTx(context.Background(), nil, reviewer, 1, ReviewInput{Decision: models.VerificationRejected})
	assert.ErrorIs(t, err, ErrVerificationAlreadyClosed)
	// Повторное ревью не оставило второй записи аудита.
	assert.Len(t, f.audit.entries, 1)
}

func TestReviewAuthorization(t *testing.T) {
	f := newVerificationFixture(t)

	// Права проверяются в сервисе независимо от HTTP-слоя.
	_, err := f.svc.Review(context.Background(), 101, 1, ReviewInput{Decision: models.VerificationApproved})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = f.svc.Review(context.Background(), 102, 1, ReviewInput{Decision: models.VerificationApproved})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = f.svc.Review(context.Background(), 999, 1, ReviewInput{Decision: models.VerificationApproved})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	// Заявка осталась pending.
	assert.Equal(t, models.VerificationPending, f.verification.requests[1].Status)
}

func TestReviewRejectsUnknownDecision(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.Review(context.Background(), 100, 1, ReviewInput{Decision: models.VerificationPending})
	assert.ErrorIs(t, err, ErrDecisionInvalid)
}

func TestSubmitValidatesClaim(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, 7, SubmitVerificationInput{ClaimedRole: "referee", ClaimedTeamID: 3, ClaimedPersonID: 11}, nil)
	assert.ErrorIs(t, err, ErrClaimedRoleInvalid)

	_, err = f.svc.Submit(ctx, 7, SubmitVerificationInput{ClaimedRole: models.ClaimedRolePlayer}, nil)
	assert.ErrorIs(t, err, ErrClaimIncomplete)

	// Пока открыта заявка, вторую подать нельзя.
	_, err = f.svc.Submit(ctx, 7, SubmitVerificationInput{ClaimedRole: models.ClaimedRolePlayer, ClaimedTeamID: 3, ClaimedPersonID: 11}, nil)
	assert.ErrorIs(t, err, ErrVerificationAlreadyOpen)
}

func TestSubmitChecksPersonBelongsToClaimedTeam(t *testing.T) {
	f := newVerificationFixture(t)
	f.users.users[8] = &models.User{ID: 8, FirstName: "Olga", LastName: "Riva"}

	_, err := f.svc.Submit(context.Background(), 8, SubmitVerificationInput{
		ClaimedRole:     models.ClaimedRolePlayer,
		ClaimedTeamID:   99,
		ClaimedPersonID: 11,
	}, nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	f := newVerificationFixture(t)
	f.users.users[8] = &models.User{ID: 8, FirstName: "Olga", LastName: "Riva"}

	req, err := f.svc.Submit(context.Background(), 8, SubmitVerificationInput{
		ClaimedRole:     models.ClaimedRolePlayer,
		ClaimedTeamID:   3,
		ClaimedPersonID: 11,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, req.Status)
	require.NotNil(t, req.ClaimedTeamID)
	assert.Equal(t, 3, *req.ClaimedTeamID)
	assert.Nil(t, req.IDImageKey)
}

func TestSubmitStampsSubmissionTime(t *testing.T) {
	f := newVerificationFixture(t)
	f.users.users[8] = &models.User{ID: 8, FirstName: "Olga", LastName: "Riva"}

	req, err := f.svc.Submit(context.Background(), 8, SubmitVerificationInput{
		ClaimedRole:     models.ClaimedRolePlayer,
		ClaimedTeamID:   3,
		ClaimedPersonID: 11,
	}, nil)
	require.NoError(t, err)

	// submitted_at вставляется как есть; нулевое время сломало бы
	// сортировку очереди ожидающих заявок.
	assert.Equal(t, f.clock.Now(), req.SubmittedAt)
	stored := f.verification.requests[req.ID]
	require.NotNil(t, stored)
	assert.Equal(t, f.clock.Now(), stored.SubmittedAt)
	assert.False(t, stored.SubmittedAt.IsZero())
}
