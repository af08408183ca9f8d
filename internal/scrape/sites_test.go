package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newSitesService(sites ...string) *Service {
	return New(&stubScraper{sites: sites}, mapParser(nil), 0)
}

func TestSupportedSites_Sorted(t *testing.T) {
	t.Parallel()

	svc := newSitesService("zested.example", "allrecipes.com", "bbcgoodfood.com")
	assert.Equal(t, []string{"allrecipes.com", "bbcgoodfood.com", "zested.example"}, svc.SupportedSites())
}

func TestSupportedSites_Empty(t *testing.T) {
	t.Parallel()

	svc := newSitesService()
	got := svc.SupportedSites()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestSite(t *testing.T) {
	t.Parallel()

	svc := newSitesService("allrecipes.com", "bbcgoodfood.com", "seriouseats.com")

	tests := []struct {
		name string
		host string
		want string
	}{
		{
			name: "exact match",
			host: "allrecipes.com",
			want: "allrecipes.com",
		},
		{
			name: "case-insensitive exact match",
			host: "AllRecipes.com",
			want: "allrecipes.com",
		},
		{
			name: "close typo",
			host: "allrecipe.com",
			want: "allrecipes.com",
		},
		{
			name: "www prefix",
			host: "www.seriouseats.com",
			want: "seriouseats.com",
		},
		{
			name: "unrelated host",
			host: "nytimes.com",
			want: "",
		},
		{
			name: "empty host",
			host: "",
			want: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, svc.SuggestSite(tc.host))
		})
	}
}
