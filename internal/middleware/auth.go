package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/gamewise/wishlist-api/internal/request"
	"github.com/gamewise/wishlist-api/internal/services/auth"
	"go.uber.org/zap"
)

// UserFromContext extracts the user from the request context
func UserFromContext(r *http.Request) *models.User {
	return request.UserFromContext(r)
}

// Auth creates authentication middleware that validates session tokens
// minted after Steam login and attaches the user to the request context.
func Auth(sessions *auth.SessionManager, userRepo database.UserRepositoryInterface, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header", logger)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format", logger)
				return
			}

			claims, err := sessions.Verify(parts[1])
			if err != nil {
				logger.Debug("session_verification_failed", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token", logger)
				return
			}

			ctx := r.Context()
			user, err := userRepo.GetByID(ctx, claims.UserID)
			if err != nil {
				// A valid signature with no matching row means the account
				// was deleted after the token was issued.
				logger.Warn("session_user_lookup_failed",
					zap.String("user_id", claims.UserID.String()),
					zap.Error(err),
				)
				respondError(w, http.StatusUnauthorized, "Unknown user", logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil && logger != nil {
		logger.Warn("failed_to_encode_error_response", zap.Error(err))
	}
}
