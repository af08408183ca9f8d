package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbeldar/recipe-scraper-api/internal/api"
	"github.com/mbeldar/recipe-scraper-api/internal/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helpers

// fakeSource returns fixed recipe fields.
type fakeSource struct{}

func (fakeSource) Title() (string, error)         { return "Banana Bread", nil }
func (fakeSource) Ingredients() ([]string, error) { return []string{"2 cups flour"}, nil }
func (fakeSource) Instructions() (any, error)     { return "Mix\nBake", nil }
func (fakeSource) Yields() (any, error)           { return "Serves 8", nil }
func (fakeSource) PrepTime() (any, error)         { return 15, nil }
func (fakeSource) CookTime() (any, error)         { return 60, nil }
func (fakeSource) TotalTime() (any, error)        { return 75, nil }
func (fakeSource) Image() (string, error)         { return "https://example.com/i.jpg", nil }
func (fakeSource) Host() (string, error)          { return "example.com", nil }
func (fakeSource) Description() (string, error)   { return "A classic.", nil }
func (fakeSource) Ratings() (any, error)          { return 4.7, nil }
func (fakeSource) Cuisine() (string, error)       { return "American", nil }

// fakeScraper serves fakeSource, or fails with err when set.
type fakeScraper struct {
	err   error
	sites []string
}

func (f *fakeScraper) Scrape(_ context.Context, _ string) (scrape.RecipeSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return fakeSource{}, nil
}

func (f *fakeScraper) Sites() []string { return f.sites }

// fakeParser parses every line into the same mapping.
type fakeParser struct{}

func (fakeParser) Parse(line string) (any, error) {
	return map[string]any{"quantity": 2.0, "unit": "Unit('cup')", "name": "flour"}, nil
}

func setupRouter(t *testing.T, scraper *fakeScraper, apiKey string) http.Handler {
	t.Helper()
	svc := scrape.New(scraper, fakeParser{}, 0)
	return api.NewRouter(svc, apiKey)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}

func doRequest(router http.Handler, method, path string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ---------------------------------------------------------------------------
// GET /health
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{}, "")

	rec := doRequest(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
}

// ---------------------------------------------------------------------------
// POST /scrape
// ---------------------------------------------------------------------------

func TestScrape_Success(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{}, "")

	body := jsonBody(t, map[string]any{"url": "https://example.com/banana-bread"})
	rec := doRequest(router, http.MethodPost, "/scrape", body)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Banana Bread", data["title"])
	assert.Equal(t, float64(8), data["yields"])
	assert.Equal(t, "15", data["prep_time"])
	assert.Equal(t, []any{"Mix", "Bake"}, data["instructions"])

	ingredients, ok := data["ingredients"].([]any)
	require.True(t, ok)
	require.Len(t, ingredients, 1)
	assert.Equal(t, map[string]any{
		"quantity": "2",
		"unit":     "cup",
		"name":     "flour",
	}, ingredients[0])
}

func TestScrape_InvalidRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body *bytes.Buffer
	}{
		{
			name: "no body",
			body: bytes.NewBufferString(""),
		},
		{
			name: "not json",
			body: bytes.NewBufferString("not json"),
		},
		{
			name: "missing url",
			body: bytes.NewBufferString(`{}`),
		},
		{
			name: "blank url",
			body: bytes.NewBufferString(`{"url": "   "}`),
		},
		{
			name: "bad scheme",
			body: bytes.NewBufferString(`{"url": "ftp://example.com/recipe"}`),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			router := setupRouter(t, &fakeScraper{}, "")
			rec := doRequest(router, http.MethodPost, "/scrape", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeBody(t, rec)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, "invalid_url", resp["error_type"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestScrape_BackendFailure(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{err: errors.New("unsupported site")}, "")

	body := jsonBody(t, map[string]any{"url": "https://nytimes.example/recipe"})
	rec := doRequest(router, http.MethodPost, "/scrape", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "scraping_failed", resp["error_type"])
	assert.Contains(t, resp["error"], "unsupported site")
}

func TestScrape_BackendFailureSuggestsSite(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{
		err:   errors.New("unsupported site"),
		sites: []string{"allrecipes.com"},
	}, "")

	body := jsonBody(t, map[string]any{"url": "https://allrecipe.com/cake"})
	rec := doRequest(router, http.MethodPost, "/scrape", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Contains(t, resp["error"], "Did you mean allrecipes.com?")
}

// ---------------------------------------------------------------------------
// GET /supported-sites
// ---------------------------------------------------------------------------

func TestSupportedSites(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{sites: []string{"b.com", "a.com"}}, "")

	rec := doRequest(router, http.MethodGet, "/supported-sites", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(2), resp["count"])
	assert.Equal(t, []any{"a.com", "b.com"}, resp["sites"])
}

// ---------------------------------------------------------------------------
// error envelopes
// ---------------------------------------------------------------------------

func TestNotFound(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{}, "")

	rec := doRequest(router, http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "not_found", resp["error_type"])
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{}, "")

	rec := doRequest(router, http.MethodGet, "/scrape", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "method_not_allowed", resp["error_type"])
}

// ---------------------------------------------------------------------------
// API key
// ---------------------------------------------------------------------------

func TestAPIKey(t *testing.T) {
	t.Parallel()
	router := setupRouter(t, &fakeScraper{}, "sekrit")

	rec := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "unauthorized", resp["error_type"])

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Api-Key", "sekrit")
	withKey := httptest.NewRecorder()
	router.ServeHTTP(withKey, req)
	assert.Equal(t, http.StatusOK, withKey.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Api-Key", "wrong")
	wrongKey := httptest.NewRecorder()
	router.ServeHTTP(wrongKey, req)
	assert.Equal(t, http.StatusUnauthorized, wrongKey.Code)
}
