package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		data   any
		check  func(*testing.T, map[string]any)
	}{
		{
			name:   "object payload",
			status: http.StatusOK,
			data:   map[string]string{"job_id": "abc"},
			check: func(t *testing.T, body map[string]any) {
				data, ok := body["data"].(map[string]any)
				if !ok {
					t.Fatal("Expected data object")
				}
				if data["job_id"] != "abc" {
					t.Errorf("Expected job_id 'abc', got %v", data["job_id"])
				}
			},
		},
		{
			name:   "nil payload",
			status: http.StatusCreated,
			data:   nil,
			check: func(t *testing.T, body map[string]any) {
				if body["data"] != nil {
					t.Errorf("Expected nil data, got %v", body["data"])
				}
			},
		},
		{
			name:   "list payload",
			status: http.StatusOK,
			data:   []string{"roguelike", "deckbuilder"},
			check: func(t *testing.T, body map[string]any) {
				data, ok := body["data"].([]any)
				if !ok || len(data) != 2 {
					t.Errorf("Expected 2-element array, got %v", body["data"])
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			respondJSON(w, tt.status, tt.data)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got %q", ct)
			}

			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if success, ok := body["success"].(bool); !ok || !success {
				t.Error("Expected success to be true")
			}
			ts, ok := body["timestamp"].(string)
			if !ok {
				t.Fatal("Expected timestamp to be present")
			}
			if _, err := time.Parse(time.RFC3339, ts); err != nil {
				t.Errorf("Timestamp %q is not valid RFC3339: %v", ts, err)
			}

			tt.check(t, body)
		})
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "Budget must be a positive amount")

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if success, ok := body["success"].(bool); !ok || success {
		t.Error("Expected success to be false")
	}
	if body["error"] != "Bad Request" {
		t.Errorf("Expected error 'Bad Request', got %v", body["error"])
	}
	if body["message"] != "Budget must be a positive amount" {
		t.Errorf("Unexpected message: %v", body["message"])
	}
	if _, ok := body["timestamp"].(string); !ok {
		t.Error("Expected timestamp to be present")
	}
}

func TestSanitizeErrorMessage_TruncatesLongMessages(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	got := sanitizeErrorMessage(long)
	if len(got) != 203 {
		t.Errorf("Expected 203 characters (200 + ellipsis), got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected truncated message to end with ellipsis")
	}

	short := "wishlist item not found"
	if sanitizeErrorMessage(short) != short {
		t.Error("Short messages must pass through unchanged")
	}
}
