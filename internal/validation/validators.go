package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gamewise/wishlist-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate

	tagPattern = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)
)

// MaxTagLength bounds a single tag, matching what the Steam store returns.
const MaxTagLength = 20

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("game_status", validateGameStatus); err != nil {
		panic(fmt.Sprintf("failed to register game_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("game_tier", validateGameTier); err != nil {
		panic(fmt.Sprintf("failed to register game_tier validator: %v", err))
	}
	if err := Validate.RegisterValidation("game_tag", validateGameTag); err != nil {
		panic(fmt.Sprintf("failed to register game_tag validator: %v", err))
	}
}

// validateGameStatus validates that a string is a valid GameStatus enum value
func validateGameStatus(fl validator.FieldLevel) bool {
	return ValidateGameStatus(fl.Field().String()) == nil
}

// validateGameTier validates that a string is a valid GameTier enum value
func validateGameTier(fl validator.FieldLevel) bool {
	return ValidateGameTier(fl.Field().String()) == nil
}

// validateGameTag validates a single tag string
func validateGameTag(fl validator.FieldLevel) bool {
	return ValidateTag(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateGameStatus validates a GameStatus string value
func ValidateGameStatus(value string) error {
	switch models.GameStatus(value) {
	case models.GameStatusPlaying, models.GameStatusCompleted, models.GameStatusBacklog, models.GameStatusUnplayed:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'playing', 'completed', 'backlog', or 'unplayed')", value)
	}
}

// ValidateGameTier validates a GameTier string value
func ValidateGameTier(value string) error {
	switch models.GameTier(value) {
	case models.TierS, models.TierA, models.TierB, models.TierC, models.TierD:
		return nil
	default:
		return fmt.Errorf("invalid tier: %s (must be one of 'S', 'A', 'B', 'C', 'D')", value)
	}
}

// ValidateRating validates a 1-5 star rating value
func ValidateRating(value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("invalid rating: %d (must be between 1 and 5)", value)
	}
	return nil
}

// ValidateTag validates a single tag: alphanumerics, spaces, and hyphens only.
func ValidateTag(value string) error {
	if value == "" {
		return fmt.Errorf("tag must not be empty")
	}
	if len(value) > MaxTagLength {
		return fmt.Errorf("tag too long: %d characters (max %d)", len(value), MaxTagLength)
	}
	if !tagPattern.MatchString(value) {
		return fmt.Errorf("invalid tag %q: only letters, digits, spaces, and hyphens are allowed", value)
	}
	return nil
}

// ValidateTags validates every tag in a list.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if err := ValidateTag(tag); err != nil {
			return err
		}
	}
	return nil
}
