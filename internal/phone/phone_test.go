package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"ten digits", "2896819206", "+12896819206"},
		{"dashed", "1-289-681-9206", "+12896819206"},
		{"already canonical with spaces", "+1 289 681 9206", "+1 289 681 9206"},
		{"parentheses", "(289) 681-9206", "+12896819206"},
		{"eleven digits leading one", "12896819206", "+12896819206"},
		{"too short", "12345", "12345"},
		{"too long", "442071234567890", "442071234567890"},
		{"whitespace padding", "  2896819206  ", "+12896819206"},
		{"letters stripped", "289-681-WXYZ", "289-681-WXYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"2896819206",
		"1-289-681-9206",
		"+1 289 681 9206",
		"+442071234567",
		"not a number",
		"12345",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize should be idempotent for %q", in)
	}
}
