package scrape

import (
	"context"
	"database/sql"
	"log"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/rank"
	"jobradar-engine/internal/scrape/types"
)

// ProcessLeads filters, scores and inserts leads, returning the rows that were
// actually new. Duplicates (same source_id) are dropped by the store.
func ProcessLeads(ctx context.Context, db *sql.DB, cfg config.Config, leads []domain.JobLead, onNewJob func()) []types.JobRow {
	scorer := rank.YAMLScorer{Cfg: cfg}

	var added []types.JobRow
	for _, lead := range leads {
		keep, why := ShouldKeepJob(cfg, lead)
		if !keep {
			log.Printf("[%s] skipped (%s) title=%q loc=%q url=%q",
				lead.FirstSeenSource, why, lead.Title, lead.LocationRaw, lead.URL)
			continue
		}

		j := jobRowFromLead(lead, scorer)

		ok, ierr := InsertJobIfNew(ctx, db, j)
		if ierr != nil {
			log.Printf("[process:%s] insert error: %v title=%q url=%q source_id=%q",
				lead.FirstSeenSource, ierr, lead.Title, lead.URL, j.SourceID)
			continue
		}
		if !ok {
			continue
		}

		added = append(added, j)
		if onNewJob != nil {
			onNewJob()
		}
	}

	return added
}
