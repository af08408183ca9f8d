// Package scrape turns a scraped recipe page into the API's normalized
// recipe shape. The actual scraping and ingredient parsing live behind the
// Scraper and IngredientParser interfaces; this package only orchestrates
// them and degrades per field when they misbehave.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mbeldar/recipe-scraper-api/internal/normalize"
)

// ErrScrapeFailed wraps any error from the scraper backend. It is the only
// error ScrapeRecipe returns: everything past a successful Scrape call
// degrades to field defaults instead of failing.
var ErrScrapeFailed = errors.New("scrape failed")

// RecipeSource exposes the fields of one scraped recipe page. Any method may
// fail for any field; callers substitute a default for that field and keep
// going.
type RecipeSource interface {
	Title() (string, error)
	Ingredients() ([]string, error)
	Instructions() (any, error)
	Yields() (any, error)
	PrepTime() (any, error)
	CookTime() (any, error)
	TotalTime() (any, error)
	Image() (string, error)
	Host() (string, error)
	Description() (string, error)
	Ratings() (any, error)
	Cuisine() (string, error)
}

// Scraper fetches a RecipeSource for a URL and knows which sites it
// supports.
type Scraper interface {
	Scrape(ctx context.Context, url string) (RecipeSource, error)
	Sites() []string
}

// IngredientParser parses one free-text ingredient line into a structured
// value (mapping- or struct-shaped, see normalize.IngredientFrom).
type IngredientParser interface {
	Parse(line string) (any, error)
}

// Recipe is the normalized recipe returned to API clients. Pointer fields
// are null in JSON when the source could not provide the value; slices are
// always present, possibly empty.
type Recipe struct {
	Title        *string                `json:"title"`
	Ingredients  []normalize.Ingredient `json:"ingredients"`
	Instructions []string               `json:"instructions"`
	Yields       *int                   `json:"yields"`
	PrepTime     *string                `json:"prep_time"`
	CookTime     *string                `json:"cook_time"`
	TotalTime    *string                `json:"total_time"`
	Image        *string                `json:"image"`
	Host         *string                `json:"host"`
	Description  *string                `json:"description"`
	Ratings      any                    `json:"ratings"`
	Cuisine      *string                `json:"cuisine"`
}

// Service holds the collaborators for recipe extraction.
type Service struct {
	scraper Scraper
	parser  IngredientParser
	clean   normalize.UnitCleaner
	timeout time.Duration
}

// New creates a new Service. A zero timeout disables the per-scrape
// deadline.
func New(scraper Scraper, parser IngredientParser, timeout time.Duration) *Service {
	return &Service{
		scraper: scraper,
		parser:  parser,
		clean:   normalize.CleanUnit,
		timeout: timeout,
	}
}

// ScrapeRecipe scrapes url and returns the normalized recipe. Only a failure
// to obtain the page at all is an error; individual field extraction
// failures are logged and replaced by defaults so that one odd field never
// sinks the whole response.
func (s *Service) ScrapeRecipe(ctx context.Context, url string) (Recipe, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	src, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		slog.Error("scraper backend failed", "url", url, "error", err)
		return Recipe{}, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}

	rec := Recipe{
		Title:        stringField(url, "title", src.Title),
		Yields:       yieldsField(url, src.Yields),
		PrepTime:     timeField(url, "prep_time", src.PrepTime),
		CookTime:     timeField(url, "cook_time", src.CookTime),
		TotalTime:    timeField(url, "total_time", src.TotalTime),
		Image:        stringField(url, "image", src.Image),
		Host:         stringField(url, "host", src.Host),
		Description:  stringField(url, "description", src.Description),
		Cuisine:      stringField(url, "cuisine", src.Cuisine),
		Instructions: []string{},
		Ingredients:  []normalize.Ingredient{},
	}

	if raw, err := src.Instructions(); err != nil {
		slog.Error("field extraction failed", "field", "instructions", "url", url, "error", err)
	} else {
		rec.Instructions = normalize.Instructions(raw)
	}

	if lines, err := src.Ingredients(); err != nil {
		slog.Error("field extraction failed", "field", "ingredients", "url", url, "error", err)
	} else {
		rec.Ingredients = s.normalizeIngredients(lines)
	}

	if ratings, err := src.Ratings(); err != nil {
		slog.Error("field extraction failed", "field", "ratings", "url", url, "error", err)
	} else if truthy(ratings) {
		rec.Ratings = ratings
	}

	return rec, nil
}

// normalizeIngredients runs every line through the parser and collects one
// record per line. A parser failure on one line produces the raw-text
// fallback for that line and the batch continues.
func (s *Service) normalizeIngredients(lines []string) []normalize.Ingredient {
	out := make([]normalize.Ingredient, 0, len(lines))
	for _, line := range lines {
		parsed, err := s.parser.Parse(line)
		if err != nil {
			slog.Warn("ingredient parse failed", "line", line, "error", err)
			out = append(out, normalize.FallbackIngredient(line))
			continue
		}
		rec, ok := normalize.IngredientFrom(line, parsed, s.clean)
		if !ok {
			slog.Warn("unusable parser result", "line", line)
		}
		out = append(out, rec)
	}
	return out
}

// stringField extracts a plain string field, nil on failure or empty value.
func stringField(url, name string, f func() (string, error)) *string {
	v, err := f()
	if err != nil {
		slog.Error("field extraction failed", "field", name, "url", url, "error", err)
		return nil
	}
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// timeField stringifies a duration-ish field, nil on failure or a falsy
// value (sites without the timing report zero).
func timeField(url, name string, f func() (any, error)) *string {
	v, err := f()
	if err != nil {
		slog.Error("field extraction failed", "field", name, "url", url, "error", err)
		return nil
	}
	if !truthy(v) {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return &s
}

var firstIntRe = regexp.MustCompile(`\d+`)

// yieldsField normalizes a yields value to an integer when possible. Sites
// report "Serves 4", "4-6", "Makes 12 cookies" or plain numbers; the first
// integer wins, nil when there is none.
func yieldsField(url string, f func() (any, error)) *int {
	v, err := f()
	if err != nil {
		slog.Error("field extraction failed", "field", "yields", "url", url, "error", err)
		return nil
	}

	switch n := v.(type) {
	case nil:
		return nil
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	}

	if m := firstIntRe.FindString(fmt.Sprint(v)); m != "" {
		if i, err := strconv.Atoi(m); err == nil {
			return &i
		}
	}
	return nil
}

// truthy mirrors the "value if value else null" convention for optional
// fields: nil, blank strings and numeric zero all count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case time.Duration:
		return t != 0
	}
	return true
}
