package middleware

import (
	"net/http"

	"github.com/kavindu-dev/furnicraft-backend/api/responses"
	pkgauth "github.com/kavindu-dev/furnicraft-backend/pkg/auth"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
)

// SessionCookieName is the cookie carrying the stateless admin session token.
const SessionCookieName = "session"

const (
	loginPath     = "/admin/login"
	dashboardPath = "/admin/dashboard"
)

// SessionVerifier is satisfied by the auth service.
type SessionVerifier interface {
	Verify(tokenString string) (*pkgauth.SessionClaims, error)
}

// sessionUsername resolves the admin identity from the request cookie. Any
// failure, missing cookie included, reads as "no session".
func sessionUsername(r *http.Request, verifier SessionVerifier) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	claims, err := verifier.Verify(cookie.Value)
	if err != nil {
		return ""
	}
	return claims.Username
}

// RequireAdmin guards the JSON admin API. Requests without a valid session
// get a 401 envelope, never a redirect.
func RequireAdmin(verifier SessionVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := sessionUsername(r, verifier)
			if username == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
				return
			}

			ctx := WithAdmin(r.Context(), username)
			if logg != nil {
				ctx = logg.WithAdmin(ctx, username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminPageGate enforces the browser-facing console policy: an anonymous
// visitor on any console page is redirected to the login page, and a
// signed-in admin visiting the login page is redirected to the dashboard.
func AdminPageGate(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := sessionUsername(r, verifier)
			onLoginPage := r.URL.Path == loginPath

			if username == "" && !onLoginPage {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			if username != "" && onLoginPage {
				http.Redirect(w, r, dashboardPath, http.StatusFound)
				return
			}

			ctx := r.Context()
			if username != "" {
				ctx = WithAdmin(ctx, username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
