package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gamifyhq/gamify/internal/logger"
)

type ctxKey string

const (
	ctxUserID ctxKey = "auth_user_id"
	ctxRole   ctxKey = "auth_role"
)

// Middleware error messages
const (
	ErrMsgUnauthorized = "Unauthorized"
	ErrMsgForbidden    = "Forbidden"
)

// Require rejects requests without a valid bearer token and stores the
// verified claims on the request context.
func Require(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			claims, err := v.Verify(raw)
			if err != nil {
				log := logger.FromContext(r.Context())
				log.Warn("Authentication failed",
					"path", r.URL.Path,
					"has_token", raw != "",
					"error", err)
				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose token carries a
// different role. Must be mounted inside Require.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Role(r) != role {
				log := logger.FromContext(r.Context())
				log.Warn("Role check failed",
					"path", r.URL.Path,
					"required", role,
					"actual", Role(r))
				http.Error(w, ErrMsgForbidden, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// UserID returns the authenticated user id from the request context
func UserID(r *http.Request) string {
	if v, ok := r.Context().Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// Role returns the authenticated role from the request context
func Role(r *http.Request) string {
	if v, ok := r.Context().Value(ctxRole).(string); ok {
		return v
	}
	return ""
}
