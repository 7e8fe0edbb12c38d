package validation

import (
	"strings"
	"testing"
)

func TestValidateGameStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"playing", "completed", "backlog", "unplayed"} {
		if err := ValidateGameStatus(valid); err != nil {
			t.Errorf("ValidateGameStatus(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "done", "PLAYING", "in-progress"} {
		if err := ValidateGameStatus(invalid); err == nil {
			t.Errorf("ValidateGameStatus(%q) = nil, want error", invalid)
		}
	}
}

func TestValidateGameTier(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"S", "A", "B", "C", "D"} {
		if err := ValidateGameTier(valid); err != nil {
			t.Errorf("ValidateGameTier(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "s", "E", "SS"} {
		if err := ValidateGameTier(invalid); err == nil {
			t.Errorf("ValidateGameTier(%q) = nil, want error", invalid)
		}
	}
}

func TestValidateRating(t *testing.T) {
	t.Parallel()

	for rating := 1; rating <= 5; rating++ {
		if err := ValidateRating(rating); err != nil {
			t.Errorf("ValidateRating(%d) = %v, want nil", rating, err)
		}
	}
	for _, invalid := range []int{0, -1, 6, 100} {
		if err := ValidateRating(invalid); err == nil {
			t.Errorf("ValidateRating(%d) = nil, want error", invalid)
		}
	}
}

func TestValidateTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{name: "simple", tag: "RPG"},
		{name: "with space", tag: "Open World"},
		{name: "with hyphen", tag: "Rogue-like"},
		{name: "digits", tag: "4X"},
		{name: "empty", tag: "", wantErr: true},
		{name: "too long", tag: strings.Repeat("a", MaxTagLength+1), wantErr: true},
		{name: "punctuation", tag: "RPG!", wantErr: true},
		{name: "unicode", tag: "ролевая", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateTag(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTag(%q) = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	t.Parallel()

	if err := ValidateTags([]string{"RPG", "Strategy", "Co-op"}); err != nil {
		t.Errorf("ValidateTags = %v, want nil", err)
	}
	if err := ValidateTags([]string{"RPG", "bad!tag"}); err == nil {
		t.Error("ValidateTags = nil, want error for invalid member")
	}
	if err := ValidateTags(nil); err != nil {
		t.Errorf("ValidateTags(nil) = %v, want nil", err)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, want string
	}{
		{name: "trims whitespace", in: "  hello  ", want: "hello"},
		{name: "keeps newline and tab", in: "a\n\tb", want: "a\n\tb"},
		{name: "drops control chars", in: "a\x00b\x1fc", want: "abc"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeText(tt.in); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
