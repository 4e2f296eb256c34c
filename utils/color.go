package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor converts a "#rrggbb" hint into the integer form Discord embeds
// use. An empty string yields 0, which Discord renders as no color.
func ParseColor(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return int(v), nil
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
