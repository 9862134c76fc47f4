package session

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxValueSize is 4KB (conservative default)
	DefaultMaxValueSize = 4096
	// EnvMaxValueSize is the environment variable to override the default
	EnvMaxValueSize = "UNDOKIT_MAX_VALUE_SIZE"
	// MaxFieldNameSize bounds field names.
	MaxFieldNameSize = 256
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrEmptyField    = errors.New("field name must not be empty")
)

// IsInvalidInput reports whether err was caused by a rejected field name or value.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrInvalidUTF8) ||
		errors.Is(err, ErrEmptyField)
}

// SanitizeField validates a field name and strips control characters from it.
func SanitizeField(name string) (string, error) {
	clean, err := sanitize(name, MaxFieldNameSize)
	if err != nil {
		return "", fmt.Errorf("field name: %w", err)
	}
	if strings.TrimSpace(clean) == "" {
		return "", ErrEmptyField
	}
	return clean, nil
}

// SanitizeValue cleans string values by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
// Other values are returned as is.
func SanitizeValue(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	clean, err := sanitize(s, maxValueSize())
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	return clean, nil
}

func sanitize(input string, limit int) (string, error) {
	// We explicitly reject rather than truncate.
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Keep \n, \t and \r. Drop ANSI escapes, NUL, BEL and friends so values
	// cannot corrupt logs or the terminal.

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxValueSize() int {
	if val := os.Getenv(EnvMaxValueSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxValueSize
}
