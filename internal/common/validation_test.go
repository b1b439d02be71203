package common

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"text", "json", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   bool
	}{
		{"supported format", "json", supported, false},
		{"unsupported format", "yaml", supported, true},
		{"no restrictions", "anything", nil, false},
		{"empty format rejected", "", supported, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantErr %v",
					tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y uppercase", "Y\n", true},
		{"no", "no\n", false},
		{"empty line declines", "\n", false},
		{"eof declines", "", false},
		{"whitespace yes", "  yes  \n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got := Confirm(strings.NewReader(tt.input), &out, "Delete 2 items?")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Delete 2 items?") {
				t.Errorf("prompt not written: %q", out.String())
			}
		})
	}
}
