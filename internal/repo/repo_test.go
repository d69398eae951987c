package repo

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: testdb.Open(t)}
}

func TestGormRepo_Users(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, u))
	require.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	err := r.CreateUser(ctx, &models.User{Email: "a@x.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := r.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = r.GetUserByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = r.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	exists, err := r.EmailExists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormRepo_SaveUser_EmailConflict(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	a := &models.User{Email: "a@x.com", PasswordHash: "h"}
	b := &models.User{Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, a))
	require.NoError(t, r.CreateUser(ctx, b))

	b.Email = "a@x.com"
	assert.ErrorIs(t, r.SaveUser(ctx, b), ErrEmailTaken)

	b.Email = "b@x.com"
	b.IsAdmin = true
	b.AdminLevel = models.LevelOperator
	require.NoError(t, r.SaveUser(ctx, b))

	got, err := r.GetUserByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, models.LevelOperator, got.AdminLevel)

	admins, err := r.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)
}

func TestGormRepo_DeleteUser_RemovesIncidents(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, u))
	require.NoError(t, r.CreateIncident(ctx, &models.Incident{UserID: u.ID, Title: "t", Description: "d", Status: models.StatusSubmitted}))

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, r.DeleteUser(ctx, u.ID), ErrUserNotFound)

	n, err := r.CountIncidents(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGormRepo_Incidents(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Email: "a@x.com", PasswordHash: "h"}
	other := &models.User{Email: "b@x.com", PasswordHash: "h"}
	require.NoError(t, r.CreateUser(ctx, u))
	require.NoError(t, r.CreateUser(ctx, other))

	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	seed := []models.Incident{
		{UserID: u.ID, Title: "old", Description: "d", Status: models.StatusResolved, CreatedAt: base},
		{UserID: u.ID, Title: "mid", Description: "d", Status: models.StatusSubmitted, CreatedAt: base.Add(24 * time.Hour),
			AdditionalMedia: []string{"uploads/a.jpg", "uploads/b.jpg"}},
		{UserID: other.ID, Title: "new", Description: "d", Status: models.StatusSubmitted, CreatedAt: base.Add(48 * time.Hour)},
		{UserID: other.ID, Title: "legacy", Description: "d", Status: models.StatusPending, CreatedAt: base.Add(72 * time.Hour)},
	}
	for i := range seed {
		require.NoError(t, r.CreateIncident(ctx, &seed[i]))
	}

	all, err := r.ListIncidents(ctx, IncidentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "legacy", all[0].Title)
	assert.Equal(t, "old", all[3].Title)

	submitted, err := r.ListIncidents(ctx, IncidentFilter{Status: models.StatusSubmitted})
	require.NoError(t, err)
	require.Len(t, submitted, 2)
	assert.Equal(t, "new", submitted[0].Title)

	window, err := r.ListIncidents(ctx, IncidentFilter{From: base.Add(24 * time.Hour), To: base.Add(48 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "mid", window[0].Title)
	assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.jpg"}, window[0].AdditionalMedia)

	mine, err := r.ListUserIncidents(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "mid", mine[0].Title)

	n, err := r.CountIncidentsByStatus(ctx, models.StatusSubmitted, models.StatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = r.CountIncidentsSince(ctx, base.Add(48*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	recent, err := r.RecentIncidents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "legacy", recent[0].Title)

	picked, err := r.GetIncidents(ctx, []uint{seed[2].ID, 999, seed[0].ID})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "new", picked[0].Title)
	assert.Equal(t, "old", picked[1].Title)
}

func TestGormRepo_SaveIncident(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	inc := &models.Incident{UserID: 1, Title: "t", Description: "d", Status: models.StatusSubmitted}
	require.NoError(t, r.CreateIncident(ctx, inc))

	remarks := "on it"
	inc.Status = models.StatusUnderProcess
	inc.AdminRemarks = &remarks
	require.NoError(t, r.SaveIncident(ctx, inc))

	got, err := r.GetIncident(ctx, inc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderProcess, got.Status)
	require.NotNil(t, got.AdminRemarks)
	assert.Equal(t, "on it", *got.AdminRemarks)

	_, err = r.GetIncident(ctx, 12345)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}
