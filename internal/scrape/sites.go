package scrape

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggestThreshold is the minimum similarity for a "did you mean" site
// suggestion. Below it, hosts are considered unrelated.
const suggestThreshold = 0.6

// SupportedSites returns the scraper backend's site list, sorted.
func (s *Service) SupportedSites() []string {
	sites := append([]string{}, s.scraper.Sites()...)
	sort.Strings(sites)
	return sites
}

// SuggestSite returns the supported host most similar to host, or "" when
// nothing is close enough. Used to hint at typos and www-less variants when
// a scrape fails.
func (s *Service) SuggestSite(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}

	best := ""
	bestScore := suggestThreshold
	for _, site := range s.scraper.Sites() {
		candidate := strings.ToLower(site)
		if candidate == host {
			return site
		}
		if score := similarity(host, candidate); score >= bestScore {
			best = site
			bestScore = score
		}
	}
	return best
}

// similarity returns a 0.0–1.0 score between two strings using Levenshtein
// distance: 1.0 - distance/max(len(a), len(b)).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
