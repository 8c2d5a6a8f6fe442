package client_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"securerisk/internal/audit"
	"securerisk/internal/auth"
	"securerisk/internal/config"
	"securerisk/internal/httpserver"
	"securerisk/internal/models"
	"securerisk/internal/store"
	"securerisk/pkg/client"
)

const testSecret = "client-test-secret"

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	cfg := &config.Config{JWTSecret: testSecret, TokenTTL: time.Hour, CORSOrigins: []string{"*"}}
	lg := zap.NewNop().Sugar()
	router := httpserver.NewRouter(cfg, store.New(db), audit.NewRecorder(db, lg), nil, lg)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newBackend(t)
	c := client.New(ts.URL)
	ctx := context.Background()

	s, err := c.Register(ctx, "alice", "pw123", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, s.Valid())
	assert.Equal(t, "alice", s.User().Username)
	assert.Equal(t, models.RoleAdmin, s.User().Role)

	s2, err := c.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.True(t, s2.Valid())
	assert.Empty(t, s2.Risks()) // primed with a fresh, empty register

	_, err = c.Login(ctx, "alice", "wrong")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestSessionStateContainer(t *testing.T) {
	ts := newBackend(t)
	c := client.New(ts.URL)
	ctx := context.Background()

	s, err := c.Register(ctx, "bob", "pw123", models.RoleAnalyst)
	require.NoError(t, err)

	created, err := s.CreateRisk(ctx, client.RiskDraft{Title: "X", Likelihood: 5, Impact: 5})
	require.NoError(t, err)
	assert.Equal(t, 25, created.Score)
	assert.Equal(t, models.LevelCritical, created.Level)

	// local patch: the new risk is at the head without a refetch
	risks := s.Risks()
	require.Len(t, risks, 1)
	assert.Equal(t, created.ID, risks[0].ID)

	impact := 1
	updated, err := s.UpdateRisk(ctx, created.ID, client.RiskUpdate{Impact: &impact})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Score)
	assert.Equal(t, models.LevelMedium, updated.Level)
	assert.Equal(t, updated.Score, s.Risks()[0].Score)

	// server remains the source of truth on refresh
	require.NoError(t, s.Refresh(ctx))
	require.Len(t, s.Risks(), 1)
	assert.Equal(t, 5, s.Risks()[0].Score)
}

func TestSessionRoleDenied(t *testing.T) {
	ts := newBackend(t)
	c := client.New(ts.URL)
	ctx := context.Background()

	admin, err := c.Register(ctx, "admin", "pw123", models.RoleAdmin)
	require.NoError(t, err)
	created, err := admin.CreateRisk(ctx, client.RiskDraft{Title: "X", Likelihood: 1, Impact: 1})
	require.NoError(t, err)

	viewer, err := c.Register(ctx, "viewer", "pw123", models.RoleViewer)
	require.NoError(t, err)

	err = viewer.DeleteRisk(ctx, created.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	// a denied mutation does not log the viewer out
	assert.True(t, viewer.Valid())

	require.NoError(t, admin.DeleteRisk(ctx, created.ID))
	assert.Empty(t, admin.Risks())
	// idempotent: deleting again still succeeds
	require.NoError(t, admin.DeleteRisk(ctx, created.ID))
}

func TestStaleTokenForcesLogout(t *testing.T) {
	ts := newBackend(t)
	c := client.New(ts.URL)
	ctx := context.Background()

	// a token that expired before first use
	u := models.User{ID: "u-1", Username: "ghost", Role: models.RoleViewer}
	expired, err := auth.Sign([]byte(testSecret), -time.Minute, u)
	require.NoError(t, err)
	s := client.NewSessionForTest(c, expired, u)

	err = s.Refresh(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, s.Valid())

	// everything after the forced logout short-circuits locally
	err = s.Refresh(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestConcurrentSessionsAreIsolated(t *testing.T) {
	ts := newBackend(t)
	c := client.New(ts.URL)
	ctx := context.Background()

	s1, err := c.Register(ctx, "user1", "pw123", models.RoleAnalyst)
	require.NoError(t, err)
	s2, err := c.Register(ctx, "user2", "pw123", models.RoleAnalyst)
	require.NoError(t, err)

	_, err = s1.CreateRisk(ctx, client.RiskDraft{Title: "from s1", Likelihood: 1, Impact: 1})
	require.NoError(t, err)

	// s2 holds its own copy until it refreshes
	assert.Empty(t, s2.Risks())
	require.NoError(t, s2.Refresh(ctx))
	require.Len(t, s2.Risks(), 1)
	assert.Equal(t, "from s1", s2.Risks()[0].Title)
}
