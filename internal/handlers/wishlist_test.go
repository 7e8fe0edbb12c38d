package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gamewise/wishlist-api/internal/middleware"
	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type fakeWishlistRepo struct {
	items map[uuid.UUID]*models.WishlistItem
	err   error
}

func newFakeWishlistRepo(items ...*models.WishlistItem) *fakeWishlistRepo {
	repo := &fakeWishlistRepo{items: make(map[uuid.UUID]*models.WishlistItem)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (f *fakeWishlistRepo) Create(_ context.Context, item *models.WishlistItem) error {
	if f.err != nil {
		return f.err
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeWishlistRepo) GetByID(_ context.Context, id uuid.UUID) (*models.WishlistItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, errors.New("wishlist item not found")
	}
	copied := *item
	return &copied, nil
}

func (f *fakeWishlistRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*models.WishlistItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var items []*models.WishlistItem
	for _, item := range f.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeWishlistRepo) Update(_ context.Context, item *models.WishlistItem) error {
	if f.err != nil {
		return f.err
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeWishlistRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	delete(f.items, id)
	return nil
}

func newWishlistRouter(repo WishlistRepo) *mux.Router {
	r := mux.NewRouter()
	NewWishlistHandler(repo).RegisterRoutes(r.PathPrefix("/api/v1/wishlist").Subrouter())
	return r
}

func authedRequest(method, path string, body []byte, user *models.User) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if user != nil {
		req = req.WithContext(middleware.SetUserInContext(req.Context(), user))
	}
	return req
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var envelope struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !envelope.Success {
		t.Error("Expected success to be true")
	}
	return envelope.Data
}

func TestCreateWishlistItem(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}

	tests := []struct {
		name       string
		body       string
		user       *models.User
		wantStatus int
		validate   func(*testing.T, *http.Response, *fakeWishlistRepo)
	}{
		{
			name:       "valid item computes discount",
			body:       `{"name":"Hades II","app_id":"1145350","tags":["Roguelike","Action"],"list_price":29.99,"current_price":14.99}`,
			user:       user,
			wantStatus: http.StatusCreated,
			validate: func(t *testing.T, resp *http.Response, repo *fakeWishlistRepo) {
				item := decodeData[models.WishlistItem](t, resp)
				if item.DiscountPercent != 50 {
					t.Errorf("Expected discount 50, got %d", item.DiscountPercent)
				}
				if item.UserID != user.ID {
					t.Errorf("Expected item owned by %s, got %s", user.ID, item.UserID)
				}
				if len(repo.items) != 1 {
					t.Errorf("Expected 1 item persisted, got %d", len(repo.items))
				}
			},
		},
		{
			name:       "missing name",
			body:       `{"list_price":10,"current_price":5}`,
			user:       user,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid tag characters",
			body:       `{"name":"Game","tags":["bad_tag!"],"list_price":10,"current_price":5}`,
			user:       user,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "current price above list price",
			body:       `{"name":"Game","list_price":10,"current_price":15}`,
			user:       user,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative price",
			body:       `{"name":"Game","list_price":-1,"current_price":-1}`,
			user:       user,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			user:       user,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unauthenticated",
			body:       `{"name":"Game","list_price":10,"current_price":5}`,
			user:       nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeWishlistRepo()
			router := newWishlistRouter(repo)

			req := authedRequest("POST", "/api/v1/wishlist", []byte(tt.body), tt.user)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			resp := w.Result()
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.validate != nil {
				tt.validate(t, resp, repo)
			}
		})
	}
}

func TestGetWishlistItem(t *testing.T) {
	t.Parallel()

	owner := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}
	stranger := &models.User{ID: uuid.New(), SteamID: "76561198000000002"}
	item := &models.WishlistItem{ID: uuid.New(), UserID: owner.ID, Name: "Celeste", ListPrice: 19.99, CurrentPrice: 4.99}

	tests := []struct {
		name       string
		path       string
		user       *models.User
		wantStatus int
	}{
		{name: "owner can fetch", path: "/api/v1/wishlist/" + item.ID.String(), user: owner, wantStatus: http.StatusOK},
		{name: "stranger forbidden", path: "/api/v1/wishlist/" + item.ID.String(), user: stranger, wantStatus: http.StatusForbidden},
		{name: "unknown id", path: "/api/v1/wishlist/" + uuid.NewString(), user: owner, wantStatus: http.StatusNotFound},
		{name: "malformed id", path: "/api/v1/wishlist/not-a-uuid", user: owner, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newWishlistRouter(newFakeWishlistRepo(item))

			req := authedRequest("GET", tt.path, nil, tt.user)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			resp := w.Result()
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestUpdateWishlistItem_RecomputesDiscount(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}
	item := &models.WishlistItem{
		ID:              uuid.New(),
		UserID:          user.ID,
		Name:            "Stardew Valley",
		ListPrice:       13.99,
		CurrentPrice:    13.99,
		DiscountPercent: 0,
	}

	repo := newFakeWishlistRepo(item)
	router := newWishlistRouter(repo)

	body := []byte(`{"current_price":6.99}`)
	req := authedRequest("PATCH", "/api/v1/wishlist/"+item.ID.String(), body, user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	updated := decodeData[models.WishlistItem](t, resp)
	if updated.CurrentPrice != 6.99 {
		t.Errorf("Expected current price 6.99, got %v", updated.CurrentPrice)
	}
	if updated.DiscountPercent != 50 {
		t.Errorf("Expected discount 50, got %d", updated.DiscountPercent)
	}
}

func TestDeleteWishlistItem(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}
	item := &models.WishlistItem{ID: uuid.New(), UserID: user.ID, Name: "Hollow Knight"}

	repo := newFakeWishlistRepo(item)
	router := newWishlistRouter(repo)

	req := authedRequest("DELETE", "/api/v1/wishlist/"+item.ID.String(), nil, user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.StatusCode)
	}
	if len(repo.items) != 0 {
		t.Errorf("Expected item deleted, %d remain", len(repo.items))
	}
}
