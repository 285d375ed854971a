package scrape_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape"
)

func filterConfig() config.Config {
	var cfg config.Config
	cfg.Filters.LocationsBlock = []string{"USA", "United States", "US Only"}
	cfg.Filters.KeywordsBlock = []string{"Must reside in US", "Green Card"}
	cfg.Filters.SeniorityBlock = []string{"senior", "principal", "7+ years"}
	return cfg
}

func TestShouldKeepJobPermissiveDefault(t *testing.T) {
	cfg := filterConfig()
	keep, _ := scrape.ShouldKeepJob(cfg, domain.JobLead{
		Title:       "Junior DevOps Engineer",
		LocationRaw: "Remote",
	})
	require.True(t, keep)
}

func TestShouldKeepJobBlocksSeniority(t *testing.T) {
	cfg := filterConfig()
	cases := []string{
		"Senior DevOps Engineer",
		"Principal Architect",
		"Engineer (7+ years required)",
	}
	for _, title := range cases {
		keep, reason := scrape.ShouldKeepJob(cfg, domain.JobLead{Title: title, LocationRaw: "Remote"})
		require.False(t, keep, "title=%q", title)
		require.Equal(t, "seniority", reason)
	}
}

func TestShouldKeepJobBlocksLocation(t *testing.T) {
	cfg := filterConfig()
	keep, reason := scrape.ShouldKeepJob(cfg, domain.JobLead{
		Title:       "Junior Data Scientist",
		LocationRaw: "Remote, US Only",
	})
	require.False(t, keep)
	require.Equal(t, "location", reason)
}

func TestShouldKeepJobBlocksDescriptionKeyword(t *testing.T) {
	cfg := filterConfig()
	keep, reason := scrape.ShouldKeepJob(cfg, domain.JobLead{
		Title:       "Junior Backend Engineer",
		LocationRaw: "Remote",
		Description: "Applicants must reside in US and hold a Green Card.",
	})
	require.False(t, keep)
	require.Equal(t, "keyword", reason)
}

func TestShouldKeepJobKeepsGlobalRemote(t *testing.T) {
	// jobs that do not restrict location stay in, even without positive signals
	cfg := filterConfig()
	keep, _ := scrape.ShouldKeepJob(cfg, domain.JobLead{
		Title:       "Backend Engineer",
		LocationRaw: "Remote (anywhere)",
	})
	require.True(t, keep)
}
