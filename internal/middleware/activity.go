package middleware

import (
	"net/http"

	"github.com/gamewise/wishlist-api/internal/database"
	"go.uber.org/zap"
)

// ActivityTracking records last-seen timestamps for authenticated requests.
// The refresh scheduler uses them to decide whose wishlists are worth
// keeping fresh, so a tracking failure never fails the request.
func ActivityTracking(activityRepo database.UserActivityRepositoryInterface, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := UserFromContext(r); user != nil {
				if err := activityRepo.TouchLastSeen(r.Context(), user.ID); err != nil {
					logger.Warn("activity_touch_failed",
						zap.String("user_id", user.ID.String()),
						zap.Error(err),
					)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
