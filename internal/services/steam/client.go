package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAPIBaseURL is the Steam Web API base URL
	DefaultAPIBaseURL = "https://api.steampowered.com"
	// DefaultStoreBaseURL is the storefront API base URL
	DefaultStoreBaseURL = "https://store.steampowered.com/api"

	// DefaultTimeout bounds single-object API calls
	DefaultTimeout = 3 * time.Second
	// LibraryTimeout bounds the owned-games call, which can return
	// thousands of entries for large libraries
	LibraryTimeout = 15 * time.Second

	// requestDelay spaces storefront requests. The storefront endpoint is
	// unauthenticated and bans callers that burst, so every client call
	// waits out the gap since the previous one.
	requestDelay = 1200 * time.Millisecond
)

// responseCache is the slice of Cache the client uses. An interface so
// tests can swap in an in-memory stand-in for the redis-backed Cache.
type responseCache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Client talks to the Steam Web API and storefront API.
type Client struct {
	apiKey       string
	apiBaseURL   string
	storeBaseURL string
	httpClient   *http.Client
	cache        responseCache
	logger       *zap.Logger

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient creates a Steam client. cache may be nil to disable caching
// (used in tests); logger may be nil.
func NewClient(apiKey string, cache *Cache, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		apiKey:       apiKey,
		apiBaseURL:   DefaultAPIBaseURL,
		storeBaseURL: DefaultStoreBaseURL,
		httpClient:   &http.Client{Timeout: LibraryTimeout},
		logger:       logger,
	}
	// A nil *Cache must stay a nil interface for the caching guards.
	if cache != nil {
		c.cache = cache
	}
	return c
}

// NewClientWithBaseURLs creates a client pointed at alternate endpoints.
// Used by tests to target an httptest server.
func NewClientWithBaseURLs(apiKey, apiBaseURL, storeBaseURL string, cache *Cache, logger *zap.Logger) *Client {
	c := NewClient(apiKey, cache, logger)
	c.apiBaseURL = apiBaseURL
	c.storeBaseURL = storeBaseURL
	return c
}

// OwnedGame is one entry from GetOwnedGames.
type OwnedGame struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// GetOwnedGames fetches the full library for a Steam ID, including free
// games and app names. Results are cached for the library TTL.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	cacheKey := "library:" + steamID
	if c.cache != nil {
		var cached []OwnedGame
		if ok, _ := c.cache.Get(ctx, cacheKey, &cached); ok {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID)
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")
	params.Set("format", "json")

	endpoint := c.apiBaseURL + "/IPlayerService/GetOwnedGames/v1/?" + params.Encode()

	var parsed ownedGamesResponse
	if err := c.getJSON(ctx, endpoint, LibraryTimeout, &parsed); err != nil {
		return nil, fmt.Errorf("get owned games: %w", err)
	}

	// A private profile comes back 200 with an empty response object.
	if parsed.Response.GameCount == 0 && parsed.Response.Games == nil {
		return nil, ErrPrivateProfile
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, parsed.Response.Games, LibraryTTL); err != nil {
			c.logger.Warn("steam_cache_write_failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return parsed.Response.Games, nil
}

// PlayerSummary is the public profile for a Steam ID.
type PlayerSummary struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
	AvatarURL   string `json:"avatarfull"`
}

type playerSummariesResponse struct {
	Response struct {
		Players []PlayerSummary `json:"players"`
	} `json:"response"`
}

// GetPlayerSummary fetches the public profile for a Steam ID.
func (c *Client) GetPlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamids", steamID)

	endpoint := c.apiBaseURL + "/ISteamUser/GetPlayerSummaries/v2/?" + params.Encode()

	var parsed playerSummariesResponse
	if err := c.getJSON(ctx, endpoint, DefaultTimeout, &parsed); err != nil {
		return nil, fmt.Errorf("get player summary: %w", err)
	}

	if len(parsed.Response.Players) == 0 {
		return nil, ErrPrivateProfile
	}
	return &parsed.Response.Players[0], nil
}

// AchievementProgress summarizes per-game achievement completion.
type AchievementProgress struct {
	Total     int
	Completed int
}

type playerAchievementsResponse struct {
	PlayerStats struct {
		Success      bool `json:"success"`
		Achievements []struct {
			Achieved int `json:"achieved"`
		} `json:"achievements"`
	} `json:"playerstats"`
}

// GetAchievements fetches achievement progress for one game. Games without
// achievements return a zero progress, not an error. Results are cached for
// the achievements TTL.
func (c *Client) GetAchievements(ctx context.Context, steamID string, appID int) (*AchievementProgress, error) {
	cacheKey := fmt.Sprintf("achievements:%s:%d", steamID, appID)
	if c.cache != nil {
		var cached AchievementProgress
		if ok, _ := c.cache.Get(ctx, cacheKey, &cached); ok {
			return &cached, nil
		}
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID)
	params.Set("appid", strconv.Itoa(appID))

	endpoint := c.apiBaseURL + "/ISteamUserStats/GetPlayerAchievements/v1/?" + params.Encode()

	var parsed playerAchievementsResponse
	if err := c.getJSON(ctx, endpoint, DefaultTimeout, &parsed); err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}

	progress := &AchievementProgress{}
	if parsed.PlayerStats.Success {
		progress.Total = len(parsed.PlayerStats.Achievements)
		for _, a := range parsed.PlayerStats.Achievements {
			if a.Achieved == 1 {
				progress.Completed++
			}
		}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, progress, AchievementsTTL); err != nil {
			c.logger.Warn("steam_cache_write_failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return progress, nil
}

// getJSON performs a throttled GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, timeout time.Duration, out any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrPrivateProfile
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// throttle blocks until requestDelay has passed since the previous request.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := c.lastCall.Add(requestDelay).Sub(now)
	if wait < 0 {
		wait = 0
	}
	// Claim the slot before sleeping so concurrent callers queue up.
	c.lastCall = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
