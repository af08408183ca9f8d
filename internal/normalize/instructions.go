package normalize

import (
	"fmt"
	"log/slog"
	"strings"
)

// Instructions converts a raw instructions value into an ordered list of
// trimmed, non-empty steps. Scrapers return either a single newline-delimited
// string or an already-split list; both normalize to the same shape. A nil or
// empty value yields an empty (non-nil) slice, and any other type is
// stringified and treated as a single block of text.
func Instructions(raw any) []string {
	steps := []string{}

	switch v := raw.(type) {
	case nil:
	case string:
		steps = splitSteps(v)
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				steps = append(steps, s)
			}
		}
	case []any:
		for _, e := range v {
			if s := strings.TrimSpace(stringify(e)); s != "" {
				steps = append(steps, s)
			}
		}
	default:
		steps = splitSteps(stringify(v))
	}

	slog.Debug("normalized instructions", "kind", fmt.Sprintf("%T", raw), "steps", len(steps))
	return steps
}

// splitSteps breaks a text block into lines, dropping blank ones.
func splitSteps(text string) []string {
	steps := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

// stringify renders a value the way it would display: strings pass through,
// Stringers use their own formatting, everything else goes through fmt.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
