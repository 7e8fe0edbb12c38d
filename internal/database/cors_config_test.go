package database

import (
	"reflect"
	"testing"
)

func TestAllowedOriginsSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "https://app.example.com", want: []string{"https://app.example.com"}},
		{
			name: "multiple with whitespace",
			raw:  "https://a.example.com, https://b.example.com ,https://c.example.com",
			want: []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"},
		},
		{
			name: "duplicates collapsed",
			raw:  "https://a.example.com,https://a.example.com",
			want: []string{"https://a.example.com"},
		},
		{name: "only separators", raw: " , ,", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := AllowedOriginsSlice(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllowedOriginsSlice(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
