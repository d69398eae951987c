package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/internal/storage"
	"github.com/Skotchmaster/incident_service/internal/testdb"
	"github.com/Skotchmaster/incident_service/pkg/hash"
	"github.com/Skotchmaster/incident_service/pkg/tokens"
	"github.com/stretchr/testify/require"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *recordingPublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type testEnv struct {
	Repo      *repo.GormRepo
	Tokens    *tokens.Service
	Events    *recordingPublisher
	Auth      *AuthService
	Incidents *IncidentService
	Admin     *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rp := &repo.GormRepo{DB: testdb.Open(t)}
	tok, err := tokens.NewService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	media, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	pub := &recordingPublisher{}

	incidents := &IncidentService{Repo: rp, Media: media, Events: pub}
	return &testEnv{
		Repo:   rp,
		Tokens: tok,
		Events: pub,
		Auth: &AuthService{
			Repo:     rp,
			Tokens:   tok,
			UserTTL:  tokens.DefaultUserTTL,
			AdminTTL: tokens.DefaultAdminTTL,
			Events:   pub,
		},
		Incidents: incidents,
		Admin: &AdminService{
			Repo:      rp,
			Incidents: incidents,
			Events:    pub,
		},
	}
}

func (env *testEnv) seedUser(t *testing.T, email, password string, isAdmin bool, level int) *models.User {
	t.Helper()

	h, err := hash.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: h, IsAdmin: isAdmin, AdminLevel: level}
	require.NoError(t, env.Repo.CreateUser(context.Background(), u))
	return u
}

func (env *testEnv) seedIncident(t *testing.T, owner *models.User, title, status string, at time.Time) *models.Incident {
	t.Helper()

	inc := &models.Incident{UserID: owner.ID, Title: title, Description: "d", Status: status, CreatedAt: at}
	require.NoError(t, env.Repo.CreateIncident(context.Background(), inc))
	return inc
}
