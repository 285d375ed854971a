package scrape

import (
	"context"
	"database/sql"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/scrape/board"
	"jobradar-engine/internal/scrape/feed"
	"jobradar-engine/internal/scrape/platsbanken"
	"jobradar-engine/internal/scrape/types"
	"jobradar-engine/internal/scrape/util"
)

// RunOnce fans out over the configured sources, inserts what survives the
// filters and returns the newly added rows.
func RunOnce(parent context.Context, db *sql.DB, cfg config.Config, onNewJob func()) ([]types.JobRow, error) {
	limiter := util.NewHostLimiter(1.0, 2)

	var fetchers []types.Fetcher

	if len(cfg.Sources.Feeds) > 0 {
		fetchers = append(fetchers, feed.New(feed.Config{Feeds: cfg.Sources.Feeds}, limiter))
	}
	if len(cfg.Sources.Boards) > 0 {
		fetchers = append(fetchers, board.New(board.Config{Boards: cfg.Sources.Boards}, limiter))
	}
	if cfg.Sources.Platsbanken.Enabled {
		fetchers = append(fetchers, platsbanken.New(platsbanken.Config{
			Queries: cfg.Sources.Platsbanken.Queries,
			Limit:   cfg.Sources.Platsbanken.Limit,
		}, limiter))
	}

	var g errgroup.Group

	results := make(chan types.ScrapeResult, len(fetchers))

	for _, f := range fetchers {
		f := f

		g.Go(func() error {
			fctx, cancel := context.WithTimeout(parent, 5*time.Minute)
			defer cancel()

			log.Printf("[%s] Running...", f.Name())
			res, err := f.Fetch(fctx)
			if err != nil {
				log.Printf("[source:%s] error: %v", f.Name(), err)
				return nil // best-effort: don't cancel siblings
			}
			results <- res
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	insertCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var added []types.JobRow
	for res := range results {
		log.Printf("[scrape] got source=%s leads=%d", res.Source, len(res.Leads))
		if len(res.Leads) > 0 {
			added = append(added, ProcessLeads(insertCtx, db, cfg, res.Leads, onNewJob)...)
		}
	}

	return added, nil
}
