package controllers

import (
	"net/http"

	"github.com/kavindu-dev/furnicraft-backend/api/middleware"
	"github.com/kavindu-dev/furnicraft-backend/api/responses"
	"github.com/kavindu-dev/furnicraft-backend/api/validators"
	authsvc "github.com/kavindu-dev/furnicraft-backend/internal/auth"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
)

// AdminLogin validates credentials and sets the session cookie. The token is
// never returned in the body; the cookie is the only carrier.
func AdminLogin(svc authsvc.Service, secureCookies bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    result.Token,
			Path:     "/",
			Expires:  result.ExpiresAt,
			HttpOnly: true,
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		responses.WriteSuccess(w, map[string]string{"username": result.Username})
	}
}

// AdminLogout clears the session cookie. The token itself stays valid until
// expiry; there is no server-side session store to revoke.
func AdminLogout(secureCookies bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteSuccess(w, map[string]string{"status": "signed_out"})
	}
}

// AdminSession echoes the authenticated admin identity for the console shell.
func AdminSession(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := middleware.AdminFromContext(r.Context())
		if username == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session required"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"username": username})
	}
}
