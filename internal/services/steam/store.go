package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// AppDetails holds the storefront fields the recommendation engine needs:
// name, genre tags, and the current price snapshot.
type AppDetails struct {
	AppID        int      `json:"app_id"`
	Name         string   `json:"name"`
	Genres       []string `json:"genres"`
	IsFree       bool     `json:"is_free"`
	ListPrice    float64  `json:"list_price"`
	CurrentPrice float64  `json:"current_price"`
}

// appDetailsEnvelope mirrors the storefront response, which keys the
// payload by the requested app ID.
type appDetailsEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Name   string `json:"name"`
		IsFree bool   `json:"is_free"`
		Genres []struct {
			Description string `json:"description"`
		} `json:"genres"`
		PriceOverview struct {
			Initial int `json:"initial"`
			Final   int `json:"final"`
		} `json:"price_overview"`
	} `json:"data"`
}

// GetAppDetails fetches storefront details for an app. Prices come back in
// cents and are converted to currency units. Cached for AppDetailsTTL.
func (c *Client) GetAppDetails(ctx context.Context, appID int) (*AppDetails, error) {
	cacheKey := "appdetails:" + strconv.Itoa(appID)
	if c.cache != nil {
		cached := &AppDetails{}
		if ok, _ := c.cache.Get(ctx, cacheKey, cached); ok {
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("appids", strconv.Itoa(appID))
	params.Set("filters", "basic,price_overview,genres")

	endpoint := c.storeBaseURL + "/appdetails?" + params.Encode()

	var envelope map[string]json.RawMessage
	if err := c.getJSON(ctx, endpoint, DefaultTimeout, &envelope); err != nil {
		return nil, fmt.Errorf("get app details: %w", err)
	}

	raw, ok := envelope[strconv.Itoa(appID)]
	if !ok {
		return nil, ErrAppNotFound
	}

	var parsed appDetailsEnvelope
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode app details: %w", err)
	}
	if !parsed.Success {
		return nil, ErrAppNotFound
	}

	details := &AppDetails{
		AppID:        appID,
		Name:         parsed.Data.Name,
		IsFree:       parsed.Data.IsFree,
		ListPrice:    float64(parsed.Data.PriceOverview.Initial) / 100,
		CurrentPrice: float64(parsed.Data.PriceOverview.Final) / 100,
	}
	for _, g := range parsed.Data.Genres {
		details.Genres = append(details.Genres, g.Description)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, details, AppDetailsTTL); err != nil {
			c.logger.Warn("steam_cache_write_failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return details, nil
}
