package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// ExecScraper delegates scraping to an external extractor command (for
// example a recipe-scrapers sidecar). The command is invoked as
// `<command> scrape <url>` and must print a JSON object of raw recipe
// fields on stdout.
type ExecScraper struct {
	command string
	sites   []string
}

// NewExecScraper creates an ExecScraper running command, advertising sites
// as its supported hosts.
func NewExecScraper(command string, sites []string) *ExecScraper {
	return &ExecScraper{command: command, sites: sites}
}

// Scrape runs the extractor command for url.
func (e *ExecScraper) Scrape(ctx context.Context, url string) (RecipeSource, error) {
	out, err := exec.CommandContext(ctx, e.command, "scrape", url).Output()
	if err != nil {
		return nil, fmt.Errorf("run scraper command: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(out, &fields); err != nil {
		return nil, fmt.Errorf("decode scraper output: %w", err)
	}
	return &jsonSource{fields: fields}, nil
}

// Sites returns the configured supported-host list.
func (e *ExecScraper) Sites() []string {
	return e.sites
}

// jsonSource is a RecipeSource over the decoded field object of an external
// extractor. Absent fields are zero values, not errors; a field of the wrong
// type is an error so the orchestration can default it.
type jsonSource struct {
	fields map[string]any
}

func (s *jsonSource) str(name string) (string, error) {
	v, ok := s.fields[name]
	if !ok || v == nil {
		return "", nil
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", name, v)
	}
	return str, nil
}

func (s *jsonSource) raw(name string) (any, error) {
	return s.fields[name], nil
}

func (s *jsonSource) Title() (string, error)       { return s.str("title") }
func (s *jsonSource) Image() (string, error)       { return s.str("image") }
func (s *jsonSource) Host() (string, error)        { return s.str("host") }
func (s *jsonSource) Description() (string, error) { return s.str("description") }
func (s *jsonSource) Cuisine() (string, error)     { return s.str("cuisine") }

func (s *jsonSource) Instructions() (any, error) { return s.raw("instructions") }
func (s *jsonSource) Yields() (any, error)       { return s.raw("yields") }
func (s *jsonSource) PrepTime() (any, error)     { return s.raw("prep_time") }
func (s *jsonSource) CookTime() (any, error)     { return s.raw("cook_time") }
func (s *jsonSource) TotalTime() (any, error)    { return s.raw("total_time") }
func (s *jsonSource) Ratings() (any, error)      { return s.raw("ratings") }

func (s *jsonSource) Ingredients() ([]string, error) {
	v, ok := s.fields["ingredients"]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected list, got %T", "ingredients", v)
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if line, ok := item.(string); ok {
			lines = append(lines, line)
		} else {
			lines = append(lines, fmt.Sprint(item))
		}
	}
	return lines, nil
}

// ExecParser delegates ingredient parsing to an external command invoked as
// `<command> parse <line>`, expecting a JSON object on stdout. The decoded
// object feeds normalize.IngredientFrom's mapping path.
type ExecParser struct {
	command string
}

// NewExecParser creates an ExecParser running command.
func NewExecParser(command string) *ExecParser {
	return &ExecParser{command: command}
}

// Parse runs the parser command for one ingredient line.
func (e *ExecParser) Parse(line string) (any, error) {
	out, err := exec.Command(e.command, "parse", line).Output()
	if err != nil {
		return nil, fmt.Errorf("run parser command: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("decode parser output: %w", err)
	}
	return parsed, nil
}
