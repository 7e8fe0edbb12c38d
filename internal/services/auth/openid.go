package auth

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// steamOpenIDEndpoint is the Steam community OpenID 2.0 provider.
	steamOpenIDEndpoint = "https://steamcommunity.com/openid/login"

	openIDNamespace  = "http://specs.openid.net/auth/2.0"
	identifierSelect = "http://specs.openid.net/auth/2.0/identifier_select"
)

// claimedIDPattern extracts the 64-bit Steam ID from a verified claimed_id.
var claimedIDPattern = regexp.MustCompile(`^https?://steamcommunity\.com/openid/id/(\d{17})$`)

// OpenIDClient implements the relying-party side of Steam's OpenID 2.0
// login. Steam never adopted OAuth2, so this is the only way in.
type OpenIDClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewOpenIDClient creates a client against the real Steam endpoint.
func NewOpenIDClient() *OpenIDClient {
	return NewOpenIDClientWithEndpoint(steamOpenIDEndpoint)
}

// NewOpenIDClientWithEndpoint creates a client against an alternate
// endpoint, used by tests.
func NewOpenIDClientWithEndpoint(endpoint string) *OpenIDClient {
	return &OpenIDClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginURL builds the redirect URL that sends the user to Steam to log in.
// returnTo is where Steam sends the browser back; realm is the trust root
// shown to the user.
func (c *OpenIDClient) LoginURL(returnTo, realm string) string {
	params := url.Values{}
	params.Set("openid.ns", openIDNamespace)
	params.Set("openid.mode", "checkid_setup")
	params.Set("openid.claimed_id", identifierSelect)
	params.Set("openid.identity", identifierSelect)
	params.Set("openid.return_to", returnTo)
	params.Set("openid.realm", realm)
	return c.endpoint + "?" + params.Encode()
}

// VerifyCallback validates the OpenID assertion in the callback query by
// replaying it to Steam with mode check_authentication. Returns the
// asserted 64-bit Steam ID.
func (c *OpenIDClient) VerifyCallback(ctx context.Context, query url.Values) (string, error) {
	if mode := query.Get("openid.mode"); mode != "id_res" {
		return "", fmt.Errorf("unexpected openid.mode %q", mode)
	}

	claimedID := query.Get("openid.claimed_id")
	match := claimedIDPattern.FindStringSubmatch(claimedID)
	if match == nil {
		return "", fmt.Errorf("claimed_id %q is not a steam identity", claimedID)
	}
	steamID := match[1]

	// Replay the assertion verbatim, switching only the mode. Steam will
	// confirm the signature it issued.
	form := url.Values{}
	for key, values := range query {
		for _, v := range values {
			form.Add(key, v)
		}
	}
	form.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verification returned status %d", resp.StatusCode)
	}

	// The response is key:value lines; we only care about is_valid.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "is_valid:true" {
			return steamID, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read verification response: %w", err)
	}

	return "", fmt.Errorf("steam rejected the login assertion")
}
