package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeValue_SizeLimit(t *testing.T) {
	limit := 4096

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeValue(strings.Repeat("a", tt.size))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
				assert.True(t, IsInvalidInput(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeValue_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxValueSize, "3")
	_, err := SanitizeValue("abcd")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	t.Setenv(EnvMaxValueSize, "nope")
	_, err = SanitizeValue("abcd")
	assert.NoError(t, err, "an invalid override falls back to the default")
}

func TestSanitizeValue_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Hello World", "Hello World"},
		{"Safe Controls", "Line1\nLine2\tTabbed", "Line1\nLine2\tTabbed"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeValue(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeValue_NonStrings(t *testing.T) {
	for _, v := range []any{42, 1.5, true, nil, []any{"\x00"}} {
		got, err := SanitizeValue(v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestSanitizeField(t *testing.T) {
	got, err := SanitizeField("co\x1blor")
	require.NoError(t, err)
	assert.Equal(t, "color", got)

	_, err = SanitizeField("")
	assert.ErrorIs(t, err, ErrEmptyField)
	_, err = SanitizeField("\x00\x07")
	assert.ErrorIs(t, err, ErrEmptyField)
	_, err = SanitizeField(strings.Repeat("f", MaxFieldNameSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
	_, err = SanitizeField("\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
