package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gamewise/wishlist-api/internal/middleware"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/gamewise/wishlist-api/internal/recommend"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Recommender scores a user's wishlist and optimizes it against a budget
type Recommender interface {
	GenerateRecommendations(ctx context.Context, userID uuid.UUID) ([]models.ScoredRecommendation, error)
	OptimizeBudget(ctx context.Context, userID uuid.UUID, budget float64) (*recommend.OptimizeOutcome, error)
}

// RecommendationHandler handles scoring and budget optimization requests
type RecommendationHandler struct {
	recommender Recommender
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommender Recommender) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender}
}

// RegisterRoutes registers recommendation routes on the given router
// The router should already have the /recommendations prefix
func (h *RecommendationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetRecommendations).Methods("GET")
	r.HandleFunc("/optimize", h.Optimize).Methods("POST")
}

// OptimizeRequest represents a budget optimization request
type OptimizeRequest struct {
	Budget float64 `json:"budget"`
}

// GetRecommendations scores the user's wishlist and returns it ordered by
// final score descending
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	recommendations, err := h.recommender.GenerateRecommendations(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to generate recommendations")
		return
	}

	respondJSON(w, http.StatusOK, recommendations)
}

// Optimize selects the best-scoring affordable subset of the wishlist for
// a given budget
func (h *RecommendationHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req OptimizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	outcome, err := h.recommender.OptimizeBudget(r.Context(), user.ID, req.Budget)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidBudget) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Budget must be a positive amount")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to optimize budget")
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}
