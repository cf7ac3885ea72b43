package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/kavindu-dev/furnicraft-backend/pkg/auth"
)

type fakeVerifier struct {
	username string
}

func (f *fakeVerifier) Verify(token string) (*pkgauth.SessionClaims, error) {
	if f.username == "" || token != "valid-token" {
		return nil, fmt.Errorf("invalid session")
	}
	return &pkgauth.SessionClaims{Username: f.username}, nil
}

func sessionRequest(t *testing.T, path, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	return req
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireAdminRejectsAnonymousWithJSON(t *testing.T) {
	next, called := okHandler()
	handler := RequireAdmin(&fakeVerifier{username: "admin"}, nil)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/api/admin/orders", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.False(t, *called)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestRequireAdminPassesIdentityThrough(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AdminFromContext(r.Context())
	})
	handler := RequireAdmin(&fakeVerifier{username: "admin"}, nil)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/api/admin/orders", "valid-token"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", seen)
}

func TestAdminPageGateRedirectsAnonymousToLogin(t *testing.T) {
	next, called := okHandler()
	handler := AdminPageGate(&fakeVerifier{username: "admin"})(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/admin/dashboard", ""))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.False(t, *called)
}

func TestAdminPageGateRedirectsSignedInAwayFromLogin(t *testing.T) {
	next, called := okHandler()
	handler := AdminPageGate(&fakeVerifier{username: "admin"})(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/admin/login", "valid-token"))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	assert.False(t, *called)
}

func TestAdminPageGateLetsAnonymousReachLogin(t *testing.T) {
	next, called := okHandler()
	handler := AdminPageGate(&fakeVerifier{username: "admin"})(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/admin/login", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestAdminPageGateLetsSignedInThrough(t *testing.T) {
	next, called := okHandler()
	handler := AdminPageGate(&fakeVerifier{username: "admin"})(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/admin/dashboard", "valid-token"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}
