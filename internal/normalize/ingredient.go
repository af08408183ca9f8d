package normalize

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Ingredient is one normalized ingredient record. Quantity and unit default
// to "" when the parser produced nothing usable; name is never empty as long
// as the raw ingredient line was non-empty.
type Ingredient struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
}

// IngredientFrom builds a normalized record from one raw ingredient line and
// the parser's result for it. Parsers disagree on shape: some return a
// mapping, some a struct; fieldsOf resolves the access style once and the
// rest of the logic is uniform. The bool reports whether structured fields
// could be read at all — false means the record fell back to the raw line.
//
// clean defaults to CleanUnit when nil, and may be substituted in tests.
func IngredientFrom(rawEntry string, parsed any, clean UnitCleaner) (Ingredient, bool) {
	if clean == nil {
		clean = CleanUnit
	}

	get, ok := fieldsOf(parsed)
	if !ok {
		return FallbackIngredient(rawEntry), false
	}

	var rec Ingredient
	if v, ok := firstPresent(get, "quantity", "amount", "size"); ok {
		rec.Quantity = formatQuantity(v)
	}
	if v, ok := get("unit"); ok && v != nil {
		rec.Unit = clean(v)
	}
	if v, ok := firstPresent(get, "name", "ingredient", "parsed"); ok {
		rec.Name = strings.TrimSpace(stringify(v))
	}
	if rec.Name == "" {
		rec.Name = strings.TrimSpace(rawEntry)
	}
	return rec, true
}

// FallbackIngredient is the degraded-but-valid record for a line the parser
// could not handle: the raw text becomes the name.
func FallbackIngredient(rawEntry string) Ingredient {
	return Ingredient{Name: strings.TrimSpace(rawEntry)}
}

// fieldGetter reads one logical field from a parsed ingredient value.
type fieldGetter func(name string) (any, bool)

// fieldsOf returns a uniform accessor over a parser result: key lookup for
// maps, exported-field lookup (case-insensitive) for structs and struct
// pointers. Anything else is unreadable and reported as such.
func fieldsOf(parsed any) (fieldGetter, bool) {
	if m, ok := parsed.(map[string]any); ok {
		return func(name string) (any, bool) {
			v, ok := m[name]
			return v, ok
		}, true
	}

	rv := reflect.ValueOf(parsed)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		keyType := rv.Type().Key()
		return func(name string) (any, bool) {
			v := rv.MapIndex(reflect.ValueOf(name).Convert(keyType))
			if !v.IsValid() {
				return nil, false
			}
			return v.Interface(), true
		}, true
	case reflect.Struct:
		rt := rv.Type()
		return func(name string) (any, bool) {
			for i := 0; i < rt.NumField(); i++ {
				f := rt.Field(i)
				if f.IsExported() && strings.EqualFold(f.Name, name) {
					return rv.Field(i).Interface(), true
				}
			}
			return nil, false
		}, true
	default:
		return nil, false
	}
}

// firstPresent walks an alias chain and returns the first usable value. Nil
// and blank-string values are treated as absent; numeric zero is present.
func firstPresent(get fieldGetter, names ...string) (any, bool) {
	for _, n := range names {
		v, ok := get(n)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(t) == "" {
				continue
			}
		}
		return v, true
	}
	return nil, false
}

// formatQuantity renders a resolved quantity value. Whole numbers drop the
// trailing ".0"; strings are trimmed, not reparsed.
func formatQuantity(v any) string {
	switch q := v.(type) {
	case string:
		return strings.TrimSpace(q)
	case int:
		return strconv.Itoa(q)
	case int8:
		return strconv.FormatInt(int64(q), 10)
	case int16:
		return strconv.FormatInt(int64(q), 10)
	case int32:
		return strconv.FormatInt(int64(q), 10)
	case int64:
		return strconv.FormatInt(q, 10)
	case uint:
		return strconv.FormatUint(uint64(q), 10)
	case uint64:
		return strconv.FormatUint(q, 10)
	case float32:
		return formatFloat(float64(q))
	case float64:
		return formatFloat(q)
	default:
		return strings.TrimSpace(stringify(q))
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
