package htmlsanitize_test

import (
	"testing"

	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Dr. Smith", "Dr. Smith"},
		{"trims", "  Dr. Smith  ", "Dr. Smith"},
		{"strips tags", "<b>Dr.</b> Smith", "Dr. Smith"},
		{"drops script", "Dr. Lee<script>alert(1)</script>", "Dr. Lee"},
		{"keeps ampersand", "O'Brien & Sons", "O'Brien & Sons"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
