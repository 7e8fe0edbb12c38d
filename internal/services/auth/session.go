package auth

import (
	"fmt"
	"time"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	sessionIssuer   = "wishlist-api"
	sessionAudience = "wishlist-api"
)

// SessionManager issues and verifies HMAC-signed session tokens. Steam's
// OpenID flow yields no token of its own, so after a verified login the
// API mints its own.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a session manager. The secret must be
// non-empty; the config layer enforces that before we get here.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// Issue mints a signed session token for a user.
func (m *SessionManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Issuer(sessionIssuer).
		Audience([]string{sessionAudience}).
		Subject(user.ID.String()).
		Claim("steam_id", user.SteamID).
		IssuedAt(now).
		Expiration(now.Add(m.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return string(signed), nil
}

// Verify parses and validates a session token, returning its claims.
func (m *SessionManager) Verify(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	userID, err := uuid.Parse(token.Subject())
	if err != nil {
		return nil, fmt.Errorf("token subject is not a user id: %w", err)
	}

	claims := &models.SessionClaims{UserID: userID}
	if raw, ok := token.Get("steam_id"); ok {
		if s, ok := raw.(string); ok {
			claims.SteamID = s
		}
	}
	if claims.SteamID == "" {
		return nil, fmt.Errorf("token missing steam_id claim")
	}

	return claims, nil
}
