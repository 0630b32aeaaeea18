package errors

import (
	"strings"
	"testing"
)

func TestValidatePageID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "page-0001", false},
		{"dotted", "p0001.tif", false},
		{"unicode", "seite-ä", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 200), true},
		{"dot", ".", true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePageID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePageID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateRunIDMessage(t *testing.T) {
	err := ValidateRunID("")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := UserMessage(err); got != "run id cannot be empty" {
		t.Errorf("UserMessage() = %q", got)
	}
}
