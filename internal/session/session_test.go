package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditosas/prestamo-engine/internal/domain"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager("test-secret", "prestamo-engine", ttl)
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	manager := newTestManager(time.Hour)
	user := &domain.User{
		ID:       uuid.New(),
		Username: "maria",
		Role:     domain.RoleCollector,
	}

	token, err := manager.Generate(user)
	require.NoError(t, err)

	identity, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "maria", identity.Username)
	assert.Equal(t, domain.RoleCollector, identity.Role)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := newTestManager(-time.Minute)
	user := &domain.User{ID: uuid.New(), Username: "maria", Role: domain.RoleAdmin}

	token, err := manager.Generate(user)
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token, err := NewManager("other-secret", "prestamo-engine", time.Hour).
		Generate(&domain.User{ID: uuid.New(), Username: "maria", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = newTestManager(time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestMiddlewareRejectsMissingCookie(t *testing.T) {
	manager := newTestManager(time.Hour)
	handler := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewarePassesIdentity(t *testing.T) {
	manager := newTestManager(time.Hour)
	user := &domain.User{ID: uuid.New(), Username: "admin", Role: domain.RoleAdmin}
	token, err := manager.Generate(user)
	require.NoError(t, err)

	var got *Identity
	handler := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestRequireEnforcesCapability(t *testing.T) {
	collector := &Identity{UserID: uuid.New(), Username: "maria", Role: domain.RoleCollector}

	called := false
	gated := Require(domain.Role.CanManageUsers, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), collector))
	rec := httptest.NewRecorder()
	gated(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &Identity{UserID: uuid.New(), Username: "root", Role: domain.RoleAdmin}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), admin))
	rec = httptest.NewRecorder()
	gated(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}
