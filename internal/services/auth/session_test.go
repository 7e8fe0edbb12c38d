package auth

import (
	"testing"
	"time"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func TestSessionManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	manager := NewSessionManager("test-secret-please-rotate", time.Hour)
	user := &models.User{ID: uuid.New(), SteamID: "76561198000000001"}

	token, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %s, want %s", claims.UserID, user.ID)
	}
	if claims.SteamID != user.SteamID {
		t.Errorf("SteamID = %q, want %q", claims.SteamID, user.SteamID)
	}
}

func TestSessionManager_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewSessionManager("secret-a", time.Hour)
	verifier := NewSessionManager("secret-b", time.Hour)

	token, err := issuer.Issue(&models.User{ID: uuid.New(), SteamID: "76561198000000001"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("expected verification failure with a different secret")
	}
}

func TestSessionManager_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	manager := NewSessionManager("test-secret", -time.Minute)

	token, err := manager.Issue(&models.User{ID: uuid.New(), SteamID: "76561198000000001"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := manager.Verify(token); err == nil {
		t.Error("expected verification failure for an expired token")
	}
}

func TestSessionManager_RejectsMissingAudience(t *testing.T) {
	t.Parallel()

	// A token signed with the right secret but minted elsewhere, without
	// this API as an audience.
	now := time.Now()
	token, err := jwt.NewBuilder().
		Issuer(sessionIssuer).
		Subject(uuid.New().String()).
		Claim("steam_id", "76561198000000001").
		IssuedAt(now).
		Expiration(now.Add(time.Hour)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, []byte("test-secret")))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	manager := NewSessionManager("test-secret", time.Hour)
	if _, err := manager.Verify(string(signed)); err == nil {
		t.Error("expected verification failure for a token without the audience claim")
	}
}

func TestSessionManager_RejectsGarbage(t *testing.T) {
	t.Parallel()

	manager := NewSessionManager("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := manager.Verify(token); err == nil {
			t.Errorf("Verify(%q) = nil, want error", token)
		}
	}
}
