package handlers

import (
	"context"
	"net/http"

	"github.com/gamewise/wishlist-api/internal/middleware"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/gamewise/wishlist-api/internal/queue"
	"github.com/gamewise/wishlist-api/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LibraryRepo is the persistence surface the library handler needs
type LibraryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.LibraryGame, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.LibraryGame, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating int, tier *models.GameTier) error
	UpdateTier(ctx context.Context, id uuid.UUID, tier models.GameTier) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.GameStatus) error
	UpdateUserTags(ctx context.Context, id uuid.UUID, tags []string) error
	UpdatePricePaid(ctx context.Context, id uuid.UUID, pricePaid float64, pricePerHour *float64) error
}

// LibraryHandler handles library listing, curation, and sync requests
type LibraryHandler struct {
	libraryRepo LibraryRepo
	jobQueue    queue.JobQueue
	logger      *zap.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(libraryRepo LibraryRepo, jobQueue queue.JobQueue, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{libraryRepo: libraryRepo, jobQueue: jobQueue, logger: logger}
}

// RegisterRoutes registers library routes on the given router
// The router should already have the /library prefix
func (h *LibraryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListGames).Methods("GET")
	r.HandleFunc("/sync", h.RequestSync).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateGame).Methods("PATCH")
}

// UpdateLibraryGameRequest represents a curation update to a library game.
// All fields are optional; rating derives a tier unless one is pinned
// explicitly in the same request.
type UpdateLibraryGameRequest struct {
	Rating    *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Tier      *string   `json:"tier,omitempty" validate:"omitempty,game_tier"`
	Status    *string   `json:"status,omitempty" validate:"omitempty,game_status"`
	UserTags  *[]string `json:"user_tags,omitempty" validate:"omitempty,max=15,dive,game_tag"`
	PricePaid *float64  `json:"price_paid,omitempty" validate:"omitempty,min=0"`
}

// ListGames lists the user's library, most played first
func (h *LibraryHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	games, err := h.libraryRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve library")
		return
	}

	respondJSON(w, http.StatusOK, games)
}

// RequestSync enqueues a library sync job for the authenticated user
func (h *LibraryHandler) RequestSync(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	job := queue.NewJob(queue.JobTypeLibrarySync, user.ID)
	if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("library_sync_enqueue_failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to enqueue sync job")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID.String()})
}

// UpdateGame applies curation updates to a library game
func (h *LibraryHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid library game ID")
		return
	}

	ctx := r.Context()
	game, err := h.libraryRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Library game not found")
		return
	}

	if game.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Library game does not belong to user")
		return
	}

	var req UpdateLibraryGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if req.Rating != nil {
		var tier *models.GameTier
		if req.Tier == nil {
			tier = models.TierFromRating(*req.Rating)
		}
		if err := h.libraryRepo.UpdateRating(ctx, id, *req.Rating, tier); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update rating")
			return
		}
	}
	if req.Tier != nil {
		if err := h.libraryRepo.UpdateTier(ctx, id, models.GameTier(*req.Tier)); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update tier")
			return
		}
	}
	if req.Status != nil {
		if err := h.libraryRepo.UpdateStatus(ctx, id, models.GameStatus(*req.Status)); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update status")
			return
		}
	}
	if req.UserTags != nil {
		if err := h.libraryRepo.UpdateUserTags(ctx, id, *req.UserTags); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update tags")
			return
		}
	}
	if req.PricePaid != nil {
		pricePerHour := pricePerHourFor(*req.PricePaid, game.PlaytimeMinutes)
		if err := h.libraryRepo.UpdatePricePaid(ctx, id, *req.PricePaid, pricePerHour); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update price paid")
			return
		}
	}

	updated, err := h.libraryRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to reload library game")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// pricePerHourFor derives cost per played hour. Unplayed games have no
// meaningful figure.
func pricePerHourFor(pricePaid float64, playtimeMinutes int) *float64 {
	if playtimeMinutes <= 0 {
		return nil
	}
	pph := pricePaid / (float64(playtimeMinutes) / 60.0)
	return &pph
}
