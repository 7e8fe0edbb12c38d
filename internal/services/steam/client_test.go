package steam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// memoryCache is an in-process responseCache for exercising the caching
// paths without redis.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClientWithBaseURLs("test-key", server.URL, server.URL, nil, nil)
	return client, server
}

func TestClient_GetOwnedGames(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("steamid"); got != "76561198000000001" {
			t.Errorf("steamid = %q", got)
		}
		if got := r.URL.Query().Get("include_appinfo"); got != "1" {
			t.Errorf("include_appinfo = %q, want 1", got)
		}
		_, _ = w.Write([]byte(`{"response":{"game_count":2,"games":[
			{"appid":440,"name":"Team Fortress 2","playtime_forever":1200},
			{"appid":570,"name":"Dota 2","playtime_forever":0}
		]}}`))
	}))

	games, err := client.GetOwnedGames(context.Background(), "76561198000000001")
	if err != nil {
		t.Fatalf("GetOwnedGames: %v", err)
	}

	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[0].AppID != 440 || games[0].Name != "Team Fortress 2" || games[0].PlaytimeForever != 1200 {
		t.Errorf("unexpected first game: %+v", games[0])
	}
}

func TestClient_GetOwnedGames_PrivateProfile(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{}}`))
	}))

	if _, err := client.GetOwnedGames(context.Background(), "76561198000000002"); !errors.Is(err, ErrPrivateProfile) {
		t.Errorf("err = %v, want ErrPrivateProfile", err)
	}
}

func TestClient_GetPlayerSummary(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[
			{"steamid":"76561198000000001","personaname":"gamer","avatarfull":"https://avatars.example/a.jpg"}
		]}}`))
	}))

	summary, err := client.GetPlayerSummary(context.Background(), "76561198000000001")
	if err != nil {
		t.Fatalf("GetPlayerSummary: %v", err)
	}
	if summary.PersonaName != "gamer" {
		t.Errorf("PersonaName = %q, want gamer", summary.PersonaName)
	}
}

func TestClient_GetAppDetails(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("appids"); got != "292030" {
			t.Errorf("appids = %q", got)
		}
		_, _ = w.Write([]byte(`{"292030":{"success":true,"data":{
			"name":"The Witcher 3","is_free":false,
			"genres":[{"description":"RPG"},{"description":"Open World"}],
			"price_overview":{"initial":3999,"final":999}
		}}}`))
	}))

	details, err := client.GetAppDetails(context.Background(), 292030)
	if err != nil {
		t.Fatalf("GetAppDetails: %v", err)
	}

	if details.Name != "The Witcher 3" {
		t.Errorf("Name = %q", details.Name)
	}
	if details.ListPrice != 39.99 || details.CurrentPrice != 9.99 {
		t.Errorf("prices = %v/%v, want 39.99/9.99", details.ListPrice, details.CurrentPrice)
	}
	if len(details.Genres) != 2 || details.Genres[0] != "RPG" {
		t.Errorf("Genres = %v", details.Genres)
	}
}

func TestClient_GetAppDetails_NotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"999999":{"success":false}}`))
	}))

	if _, err := client.GetAppDetails(context.Background(), 999999); !errors.Is(err, ErrAppNotFound) {
		t.Errorf("err = %v, want ErrAppNotFound", err)
	}
}

func TestClient_GetAchievements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		body          string
		wantTotal     int
		wantCompleted int
	}{
		{
			name: "mixed progress",
			body: `{"playerstats":{"success":true,"achievements":[
				{"achieved":1},{"achieved":0},{"achieved":1}
			]}}`,
			wantTotal:     3,
			wantCompleted: 2,
		},
		{
			name:      "game without achievements",
			body:      `{"playerstats":{"success":false}}`,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))

			progress, err := client.GetAchievements(context.Background(), "76561198000000001", 440)
			if err != nil {
				t.Fatalf("GetAchievements: %v", err)
			}
			if progress.Total != tt.wantTotal || progress.Completed != tt.wantCompleted {
				t.Errorf("progress = %+v, want %d/%d", progress, tt.wantCompleted, tt.wantTotal)
			}
		})
	}
}

func TestClient_GetAchievements_CachesResults(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"playerstats":{"success":true,"achievements":[
			{"achieved":1},{"achieved":0}
		]}}`))
	}))
	client.cache = newMemoryCache()

	first, err := client.GetAchievements(context.Background(), "76561198000000001", 440)
	if err != nil {
		t.Fatalf("first GetAchievements: %v", err)
	}
	second, err := client.GetAchievements(context.Background(), "76561198000000001", 440)
	if err != nil {
		t.Fatalf("second GetAchievements: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (second call served from cache)", hits.Load())
	}
	if *first != *second {
		t.Errorf("cached progress %+v differs from original %+v", second, first)
	}

	// A different game must miss the cache.
	if _, err := client.GetAchievements(context.Background(), "76561198000000001", 570); err != nil {
		t.Fatalf("third GetAchievements: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2 after a different app id", hits.Load())
	}
}

func TestClient_RateLimitStatus(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	if _, err := client.GetPlayerSummary(context.Background(), "76561198000000001"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}
