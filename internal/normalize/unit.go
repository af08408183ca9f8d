package normalize

import (
	"log/slog"
	"regexp"
	"strings"
)

// UnitCleaner converts a raw unit value into a plain display string. It is
// the injectable dependency of IngredientFrom; CleanUnit is the standard
// implementation.
type UnitCleaner func(raw any) string

// Some ingredient parsers stringify their unit objects as a constructor call
// with a quoted argument, e.g. Unit('cup'). The pattern is a best-effort
// heuristic, not a grammar: first match anywhere in the string wins.
var unitWrapperRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_.]*\(\s*['"]?([^'")]+)['"]?\s*\)`)

const quoteCutset = `"' ` + "\t\r\n"

// CleanUnit turns a raw unit value into a clean display string. Wrapped
// representations like Unit('cup') reduce to the inner value; plain strings
// lose surrounding quotes and whitespace; nil and empty values become "".
// It never fails on malformed input.
func CleanUnit(raw any) string {
	if raw == nil {
		return ""
	}

	s := stringify(raw)
	if s == "" {
		return ""
	}

	var out string
	if m := unitWrapperRe.FindStringSubmatch(s); m != nil {
		out = strings.Trim(m[1], quoteCutset)
	} else {
		out = strings.Trim(s, quoteCutset)
	}

	if out != "" {
		slog.Debug("cleaned unit", "unit", out)
	}
	return out
}
