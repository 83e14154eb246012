package romanian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCIF(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12345678", "12345678"},
		{"RO12345678", "12345678"},
		{"ro12345678", "12345678"},
		{"Ro 12345678", "12345678"},
		{"  RO12345678  ", "12345678"},
		{"RO", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCIF(tt.in), "input %q", tt.in)
	}
}

func TestFormatCIF(t *testing.T) {
	assert.Equal(t, "RO12345678", FormatCIF("12345678"))
	assert.Equal(t, "RO12345678", FormatCIF("RO12345678"))
	assert.Equal(t, "RO12345678", FormatCIF("ro12345678"))
	assert.Equal(t, "", FormatCIF(""))
	assert.Equal(t, "", FormatCIF("  RO "))

	// Idempotent under re-application, and stable through a strip round-trip.
	for _, digits := range []string{"12", "1234567890", "42"} {
		once := FormatCIF(digits)
		assert.Equal(t, once, FormatCIF(once))
		assert.Equal(t, once, FormatCIF(StripCIF(once)))
	}
}

func TestValidateCIF(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantValid  bool
		wantReason FormatReason
	}{
		{"plain digits", "12345678", true, ReasonOK},
		{"with prefix", "RO12345678", true, ReasonOK},
		{"lowercase prefix", "ro42", true, ReasonOK},
		{"minimum length", "12", true, ReasonOK},
		{"maximum length", "1234567890", true, ReasonOK},
		{"empty", "", false, ReasonEmpty},
		{"whitespace only", "   ", false, ReasonEmpty},
		{"prefix only", "RO", false, ReasonEmpty},
		{"single digit", "1", false, ReasonTooShort},
		{"eleven digits", "12345678901", false, ReasonTooLong},
		{"internal space", "12 345", false, ReasonNonNumeric},
		{"letters", "RO12AB34", false, ReasonNonNumeric},
		{"punctuation", "123-456", false, ReasonNonNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCIF(tt.in)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantReason, got.Reason)
			if !tt.wantValid {
				assert.NotEmpty(t, got.Message)
			}
		})
	}
}
