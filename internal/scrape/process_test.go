package scrape_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/scrape"
	"jobradar-engine/internal/scrape/types"
	"jobradar-engine/internal/store"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))
	return db
}

func TestInsertJobIfNewDedupsByURL(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	row := types.JobRow{
		Company: "Acme",
		Title:   "Junior Engineer",
		URL:     "https://example.com/jobs/1?utm_source=feed",
	}
	added, err := scrape.InsertJobIfNew(ctx, db.Pool, row)
	require.NoError(t, err)
	require.True(t, added)

	// same posting via a different referral link
	row2 := types.JobRow{
		Company: "Acme",
		Title:   "Junior Engineer",
		URL:     "https://example.com/jobs/1",
	}
	added, err = scrape.InsertJobIfNew(ctx, db.Pool, row2)
	require.NoError(t, err)
	require.False(t, added)

	jobs, err := store.ListJobs(ctx, db.Pool, store.ListJobsOpts{Window: "all"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestInsertJobIfNewRequiresURL(t *testing.T) {
	db := openTestDB(t)
	_, err := scrape.InsertJobIfNew(context.Background(), db.Pool, types.JobRow{Title: "No URL"})
	require.Error(t, err)
}

func TestInsertJobIfNewFillsDefaults(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	added, err := scrape.InsertJobIfNew(ctx, db.Pool, types.JobRow{URL: "https://example.com/j/9"})
	require.NoError(t, err)
	require.True(t, added)

	jobs, err := store.ListJobs(ctx, db.Pool, store.ListJobsOpts{Window: "all"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, "Unknown", jobs[0].Company)
	require.Equal(t, "Job Posting", jobs[0].Title)
}

func TestProcessLeadsFiltersScoresAndDedups(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var cfg config.Config
	cfg.Filters.SeniorityBlock = []string{"senior"}
	cfg.Scoring.TitleRules = []config.Rule{
		{Tag: "junior", Weight: 30, Any: []string{"junior"}},
	}

	now := time.Now()
	leads := []domain.JobLead{
		{CompanyName: "Acme", Title: "Junior Engineer", URL: "https://example.com/j/1", PostedAt: &now, FirstSeenSource: "feed"},
		{CompanyName: "Acme", Title: "Senior Engineer", URL: "https://example.com/j/2", PostedAt: &now, FirstSeenSource: "feed"},
		{CompanyName: "Acme", Title: "Junior Engineer", URL: "https://example.com/j/1", PostedAt: &now, FirstSeenSource: "board"},
	}

	notified := 0
	added := scrape.ProcessLeads(ctx, db.Pool, cfg, leads, func() { notified++ })

	require.Len(t, added, 1)
	require.Equal(t, 1, notified)
	require.Equal(t, 30, added[0].Score)
	require.Equal(t, []string{"junior"}, added[0].Tags)

	jobs, err := store.ListJobs(ctx, db.Pool, store.ListJobsOpts{Window: "all"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestProcessLeadsPrefersBoardJobID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var cfg config.Config
	now := time.Now()

	// same board ID seen under two URLs is still one job
	leads := []domain.JobLead{
		{CompanyName: "AF", Title: "Junior Dev", URL: "https://a.example/1", BoardJobID: "platsbanken:42", PostedAt: &now},
		{CompanyName: "AF", Title: "Junior Dev", URL: "https://b.example/other", BoardJobID: "platsbanken:42", PostedAt: &now},
	}
	added := scrape.ProcessLeads(ctx, db.Pool, cfg, leads, nil)
	require.Len(t, added, 1)
}
