package errors

import (
	"strings"
	"testing"
)

func TestValidatePersonID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"object id", "64b7f0c2e4b0a1a2b3c4d5e6", false},
		{"uuid", "6f1c0b6e-7a43-5d2b-9c1e-4b3f6a0d8e21", false},
		{"slug", "arthur.pendragon_1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"slash", "a/b", true},
		{"space", "a b", true},
		{"leading dash", "-a", true},
		{"null byte", "a\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRoot) {
				t.Errorf("ValidatePersonID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidRoot)
			}
		})
	}
}

func TestValidateGenerations(t *testing.T) {
	for _, n := range []int{0, 1, MaxGenerations} {
		if err := ValidateGenerations(n); err != nil {
			t.Errorf("ValidateGenerations(%d) = %v, want nil", n, err)
		}
	}
	for _, n := range []int{-1, MaxGenerations + 1} {
		if err := ValidateGenerations(n); err == nil {
			t.Errorf("ValidateGenerations(%d) = nil, want error", n)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "tree.svg", false},
		{"nested", "out/tree.json", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "out/../../secret", true},
		{"backslash", "out\\tree.svg", true},
		{"control", "tree\n.svg", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"https", "https://example.com/avatar.png", nil, false},
		{"http", "http://example.com/path", nil, false},
		{"mongo", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"mongo srv", "mongodb+srv://cluster.example.com", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", nil, true},
		{"ftp", "ftp://example.com", nil, true},
		{"javascript", "javascript:alert(1)", nil, true},
		{"http for mongo", "http://localhost", []string{"mongodb"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
