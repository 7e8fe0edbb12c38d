package handlers

import (
	"context"
	"net/http"

	"github.com/gamewise/wishlist-api/internal/database"
	"github.com/gamewise/wishlist-api/internal/middleware"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/gamewise/wishlist-api/internal/queue"
	"github.com/gamewise/wishlist-api/internal/services/auth"
	"github.com/gamewise/wishlist-api/internal/services/steam"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PersonaFetcher resolves a Steam ID to its public profile
type PersonaFetcher interface {
	GetPlayerSummary(ctx context.Context, steamID string) (*steam.PlayerSummary, error)
}

// AuthHandler handles the Steam login flow and session introspection
type AuthHandler struct {
	openID      *auth.OpenIDClient
	sessions    *auth.SessionManager
	userRepo    database.UserRepositoryInterface
	steam       PersonaFetcher
	jobQueue    queue.JobQueue
	baseURL     string
	frontendURL string
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	openID *auth.OpenIDClient,
	sessions *auth.SessionManager,
	userRepo database.UserRepositoryInterface,
	steamClient PersonaFetcher,
	jobQueue queue.JobQueue,
	baseURL, frontendURL string,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		openID:      openID,
		sessions:    sessions,
		userRepo:    userRepo,
		steam:       steamClient,
		jobQueue:    jobQueue,
		baseURL:     baseURL,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// RegisterRoutes registers auth routes on the given router
// The router should already have the /api/v1/auth prefix
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/steam/login", h.SteamLogin).Methods("GET")
	r.HandleFunc("/steam/callback", h.SteamCallback).Methods("GET")
	r.HandleFunc("/me", h.GetMe).Methods("GET")
}

// SteamLogin redirects the browser into Steam's OpenID login flow
func (h *AuthHandler) SteamLogin(w http.ResponseWriter, r *http.Request) {
	returnTo := h.baseURL + "/api/v1/auth/steam/callback"
	http.Redirect(w, r, h.openID.LoginURL(returnTo, h.baseURL), http.StatusFound)
}

// SteamCallback completes the OpenID flow: verifies the assertion with
// Steam, upserts the user, mints a session token, and hands the browser
// back to the frontend with the token in the URL fragment.
func (h *AuthHandler) SteamCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	steamID, err := h.openID.VerifyCallback(ctx, r.URL.Query())
	if err != nil {
		h.logger.Warn("steam_openid_verification_failed", zap.Error(err))
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Steam login could not be verified")
		return
	}

	user := &models.User{ID: uuid.New(), SteamID: steamID}

	// Persona name is a nicety; a private or unreachable profile must not
	// block login.
	if summary, err := h.steam.GetPlayerSummary(ctx, steamID); err == nil {
		user.PersonaName = &summary.PersonaName
	} else {
		h.logger.Debug("persona_lookup_failed",
			zap.String("steam_id", steamID),
			zap.Error(err),
		)
	}

	if err := h.userRepo.Upsert(ctx, user); err != nil {
		h.logger.Error("user_upsert_failed",
			zap.String("steam_id", steamID),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create user")
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		h.logger.Error("session_issue_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create session")
		return
	}

	// Kick off a library sync so a fresh account has data by the time the
	// frontend asks for recommendations. Safe to repeat on every login.
	if h.jobQueue != nil {
		job := queue.NewJob(queue.JobTypeLibrarySync, user.ID)
		if err := h.jobQueue.Enqueue(ctx, job); err != nil {
			h.logger.Warn("library_sync_enqueue_failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("steam_login_completed",
		zap.String("user_id", user.ID.String()),
		zap.String("steam_id", steamID),
	)

	// Fragment keeps the token out of server logs on the frontend side
	http.Redirect(w, r, h.frontendURL+"/auth/complete#token="+token, http.StatusFound)
}

// GetMe returns current user information
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
