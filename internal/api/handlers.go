package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbeldar/recipe-scraper-api/internal/logging"
	"github.com/mbeldar/recipe-scraper-api/internal/scrape"
)

// NewRouter wires up all routes with the provided Service. A non-empty
// apiKey puts every route behind an X-Api-Key check.
func NewRouter(svc *scrape.Service, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	if apiKey != "" {
		r.Use(requireAPIKey(apiKey))
	}

	r.Get("/health", handleHealth)
	r.Post("/scrape", handleScrape(svc))
	r.Get("/supported-sites", handleSupportedSites(svc))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Endpoint not found", "not_found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Method not allowed", "method_not_allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// requireAPIKey rejects requests without the expected X-Api-Key header.
func requireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Api-Key") != key {
				jsonError(w, "Unauthorized", "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// --- health ---

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "Recipe Scraper API is running",
	})
}

// --- scrape ---

type scrapeRequest struct {
	URL string `json:"url"`
}

type scrapeResponse struct {
	Success bool          `json:"success"`
	Data    scrape.Recipe `json:"data"`
}

func handleScrape(svc *scrape.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "Request body must be JSON", "invalid_url", http.StatusBadRequest)
			return
		}
		target := strings.TrimSpace(req.URL)
		if target == "" {
			jsonError(w, "URL is required in the request body", "invalid_url", http.StatusBadRequest)
			return
		}
		if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
			jsonError(w, "URL must start with http:// or https://", "invalid_url", http.StatusBadRequest)
			return
		}

		slog.Info("scraping recipe", "url", target)
		recipe, err := svc.ScrapeRecipe(r.Context(), target)
		if err != nil {
			if errors.Is(err, scrape.ErrScrapeFailed) {
				jsonError(w, scrapeFailedMessage(svc, target, err), "scraping_failed", http.StatusBadRequest)
				return
			}
			slog.Error("unexpected scrape error", "url", target, "error", err)
			jsonError(w, "An unexpected error occurred", "server_error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, scrapeResponse{Success: true, Data: recipe})
	}
}

// scrapeFailedMessage builds the client-facing failure message, including a
// nearest-site hint when the requested host is close to a supported one.
func scrapeFailedMessage(svc *scrape.Service, target string, err error) string {
	msg := fmt.Sprintf(
		"Could not scrape recipe from URL. The website may not be supported or the URL may be invalid. Error: %v",
		err,
	)
	if u, parseErr := url.Parse(target); parseErr == nil {
		if suggestion := svc.SuggestSite(u.Hostname()); suggestion != "" && suggestion != u.Hostname() {
			msg += fmt.Sprintf(" Did you mean %s?", suggestion)
		}
	}
	return msg
}

// --- supported sites ---

type sitesResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Sites   []string `json:"sites"`
}

func handleSupportedSites(svc *scrape.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sites := svc.SupportedSites()
		writeJSON(w, http.StatusOK, sitesResponse{
			Success: true,
			Count:   len(sites),
			Sites:   sites,
		})
	}
}

// --- helpers ---

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonError(w http.ResponseWriter, msg, errType string, status int) {
	if status >= 500 {
		slog.Error(msg, "status", status, "error_type", errType)
	}
	writeJSON(w, status, errorResponse{Error: msg, ErrorType: errType})
}
