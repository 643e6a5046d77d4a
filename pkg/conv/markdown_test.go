package conv

import (
	"strings"
	"testing"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{
			name:     "bold",
			input:    "**Hayward Super Pump**",
			contains: "<strong>Hayward Super Pump</strong>",
		},
		{
			name:     "code",
			input:    "part `LZA406103A`",
			contains: "<code>LZA406103A</code>",
		},
		{
			name:     "link kept",
			input:    "[store](https://example.com)",
			contains: `href="https://example.com"`,
		},
		{
			name:     "headings stripped",
			input:    "# Pricing",
			excludes: "<h1",
		},
		{
			name:     "images stripped",
			input:    "![diagram](https://example.com/x.png)",
			excludes: "<img",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTelegramHTML([]byte(tt.input))
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("output %q does not contain %q", got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("output %q should not contain %q", got, tt.excludes)
			}
		})
	}
}
