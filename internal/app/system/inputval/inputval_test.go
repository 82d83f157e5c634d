package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@localhost", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	var errs Errors
	errs.Required("room", "Room", "")
	errs.MaxLen("provider", "Provider", "ééééé", 4)
	errs.MaxLen("surgeon", "Surgeon", "éééé", 4)

	if len(errs) != 2 {
		t.Fatalf("errs = %+v", errs)
	}
	if !errs.Has("room") || !errs.Has("provider") || errs.Has("surgeon") {
		t.Errorf("Has mismatch: %+v", errs)
	}
	if got := errs.Error(); got != "Room is required. Provider must be 4 characters or fewer." {
		t.Errorf("Error() = %q", got)
	}
}
