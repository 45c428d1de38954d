package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hearth-im/hearth"
)

// DefaultEventCacheSize is the event cache size used when the config does
// not set one.
const DefaultEventCacheSize = "10K"

// ParseSize parses a human-readable size expression of the form
// <number>[K|M|G]. Units are case-insensitive and base 1024, so "10K"
// yields 10240. Malformed or negative expressions fail with
// hearth.ErrInvalidConfig.
func ParseSize(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty size expression: %w", hearth.ErrInvalidConfig)
	}

	mult := 1
	switch trimmed[len(trimmed)-1] {
	case 'K', 'k':
		mult = 1 << 10
		trimmed = trimmed[:len(trimmed)-1]
	case 'M', 'm':
		mult = 1 << 20
		trimmed = trimmed[:len(trimmed)-1]
	case 'G', 'g':
		mult = 1 << 30
		trimmed = trimmed[:len(trimmed)-1]
	}

	n, err := strconv.Atoi(strings.TrimSpace(trimmed))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a valid size expression: %w", s, hearth.ErrInvalidConfig)
	}
	return n * mult, nil
}
