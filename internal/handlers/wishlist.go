package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gamewise/wishlist-api/internal/middleware"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/gamewise/wishlist-api/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	// MaxGameNameLength is the maximum length for a game name
	MaxGameNameLength = 200
	// MaxTagsPerItem is the maximum number of tags on a single item
	MaxTagsPerItem = 15
)

// WishlistRepo is the persistence surface the wishlist handler needs
type WishlistRepo interface {
	Create(ctx context.Context, item *models.WishlistItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WishlistItem, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.WishlistItem, error)
	Update(ctx context.Context, item *models.WishlistItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WishlistHandler handles wishlist CRUD requests
type WishlistHandler struct {
	wishlistRepo WishlistRepo
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistRepo WishlistRepo) *WishlistHandler {
	return &WishlistHandler{wishlistRepo: wishlistRepo}
}

// RegisterRoutes registers wishlist routes on the given router
// The router should already have the /wishlist prefix
func (h *WishlistHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListItems).Methods("GET")
	r.HandleFunc("", h.CreateItem).Methods("POST")
	r.HandleFunc("/{id}", h.GetItem).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateItem).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteItem).Methods("DELETE")
}

// CreateWishlistItemRequest represents a create wishlist item request
type CreateWishlistItemRequest struct {
	AppID        *string  `json:"app_id,omitempty" validate:"omitempty,numeric"`
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Tags         []string `json:"tags" validate:"max=15,dive,game_tag"`
	ListPrice    float64  `json:"list_price" validate:"min=0"`
	CurrentPrice float64  `json:"current_price" validate:"min=0"`
}

// UpdateWishlistItemRequest represents an update wishlist item request
type UpdateWishlistItemRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Tags         *[]string `json:"tags,omitempty" validate:"omitempty,max=15,dive,game_tag"`
	ListPrice    *float64  `json:"list_price,omitempty" validate:"omitempty,min=0"`
	CurrentPrice *float64  `json:"current_price,omitempty" validate:"omitempty,min=0"`
}

// ListItems lists wishlist items for the authenticated user, best scores
// first
func (h *WishlistHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	items, err := h.wishlistRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve wishlist")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// CreateItem adds a game to the wishlist
func (h *WishlistHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateWishlistItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	if req.Name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name is required and cannot be empty after sanitization")
		return
	}

	if req.CurrentPrice > req.ListPrice {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Current price cannot exceed list price")
		return
	}

	item := &models.WishlistItem{
		ID:              uuid.New(),
		UserID:          user.ID,
		AppID:           req.AppID,
		Name:            req.Name,
		Tags:            req.Tags,
		ListPrice:       req.ListPrice,
		CurrentPrice:    req.CurrentPrice,
		DiscountPercent: models.DiscountPercentFor(req.ListPrice, req.CurrentPrice),
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if err := h.wishlistRepo.Create(r.Context(), item); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create wishlist item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// GetItem retrieves a wishlist item by ID
func (h *WishlistHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	_, item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// UpdateItem updates an existing wishlist item. Prices feed the discount
// percent, which is recomputed on every change.
func (h *WishlistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	_, item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	var req UpdateWishlistItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
			return
		}
		item.Name = sanitized
	}
	if req.Tags != nil {
		item.Tags = *req.Tags
	}
	if req.ListPrice != nil {
		item.ListPrice = *req.ListPrice
	}
	if req.CurrentPrice != nil {
		item.CurrentPrice = *req.CurrentPrice
	}

	if item.CurrentPrice > item.ListPrice {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Current price cannot exceed list price")
		return
	}

	item.DiscountPercent = models.DiscountPercentFor(item.ListPrice, item.CurrentPrice)

	if err := h.wishlistRepo.Update(r.Context(), item); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update wishlist item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// DeleteItem removes a wishlist item
func (h *WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	_, item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	if err := h.wishlistRepo.Delete(r.Context(), item.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete wishlist item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadOwnedItem parses the {id} var, loads the item, and verifies it
// belongs to the authenticated user. Writes the error response itself when
// it returns ok=false.
func (h *WishlistHandler) loadOwnedItem(w http.ResponseWriter, r *http.Request) (*models.User, *models.WishlistItem, bool) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return nil, nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid wishlist item ID")
		return nil, nil, false
	}

	item, err := h.wishlistRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Wishlist item not found")
		return nil, nil, false
	}

	if item.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Wishlist item does not belong to user")
		return nil, nil, false
	}

	return user, item, true
}

// decodeBody decodes a JSON request body, writing the error response
// itself on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return err
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return err
	}
	return nil
}

// respondValidationError reports the first field error from validator
func respondValidationError(w http.ResponseWriter, err error) {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
			return
		}
	}
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
}
