package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/identity/application/auth"
)

type contextKey string

const userIDCtxKey contextKey = "user_id"

// UserIDFromContext extracts the authenticated user id placed by
// RequireAuth. The second return is false when the request never passed
// the gate.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uuid.UUID)
	return id, ok
}

// RequireAuth is the authentication gate: it resolves the bearer
// credential to a user id and stores it in the request context, or rejects
// the request with 401 before any task operation runs.
func RequireAuth(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "Invalid authorization header format, use: Bearer <token>")
				return
			}

			userID, err := authService.VerifyAccess(r.Context(), token)
			if err != nil {
				logger.Debug("rejected credential", "error", err)
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDCtxKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
