package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/httpapi"
	"jobradar-engine/internal/notify"
	"jobradar-engine/internal/scheduler"
	"jobradar-engine/internal/scrape"
	"jobradar-engine/internal/store"
	"jobradar-engine/web"
)

func main() {
	dataDir := os.Getenv("JOBRADAR_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// Two engines sharing one sqlite file corrupts the dedup guarantees.
	fl := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := fl.TryLock()
	if err != nil {
		log.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running in %s", dataDir)
	}
	defer fl.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if _, vr := config.NormalizeAndValidate(cfg); !vr.OK() {
		for _, e := range vr.Errors {
			log.Printf("config error: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "jobradar.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var scrapeStatus atomic.Value
	scrapeStatus.Store(httpapi.ScrapeStatus{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// runScrape is shared by the manual trigger and the scheduler: scrape,
	// then mail the digest of whatever was new.
	runScrape := func(cfg config.Config, onNewJob func()) (int, error) {
		added, err := scrape.RunOnce(ctx, db.Pool, cfg, onNewJob)
		if err != nil {
			return len(added), err
		}
		if mailErr := (notify.Mailer{Cfg: cfg}).SendDigest(added); mailErr != nil {
			log.Printf("[notify] %v", mailErr)
		}
		return len(added), nil
	}

	scheduledRun := func(ctx context.Context) error {
		st := scrapeStatus.Load().(httpapi.ScrapeStatus)
		if st.Running {
			log.Printf("[schedule] previous scrape still running; skipping")
			return nil
		}
		st.Running = true
		st.LastRunAt = time.Now().Format(time.RFC3339)
		scrapeStatus.Store(st)

		cfg := cfgVal.Load().(config.Config)
		added, err := runScrape(cfg, func() {
			hub.Publish(events.MakeEvent("", "job_created", 1, nil))
		})

		next := scrapeStatus.Load().(httpapi.ScrapeStatus)
		next.Running = false
		next.LastAdded = added
		if err != nil {
			next.LastError = err.Error()
			log.Printf("[schedule] error: %v", err)
		} else {
			next.LastError = ""
			next.LastOkAt = time.Now().Format(time.RFC3339)
			log.Printf("[schedule] ok added=%d", added)
		}
		scrapeStatus.Store(next)
		return nil
	}

	// Daily scrapes at the configured wall-clock times.
	loc := time.UTC
	if tz := cfg.Schedule.Timezone; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		} else {
			log.Printf("bad timezone %q, falling back to UTC: %v", tz, err)
		}
	}
	go scheduler.Daily(ctx, loc, cfg.Schedule.Times, "schedule", scheduledRun)

	if cfg.Schedule.RunOnStart {
		go func() { _ = scheduledRun(ctx) }()
	}

	// Retention loop keeps the table from growing without bound.
	retentionEvery := time.Duration(cfg.Retention.IntervalHours) * time.Hour
	if retentionEvery <= 0 {
		retentionEvery = 24 * time.Hour
	}
	go scheduler.Every(ctx, retentionEvery, "retention", func(context.Context) error {
		n, err := store.CleanupOldJobs(db.Pool, cfg.Retention.MaxAgeDays)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("[retention] deleted=%d", n)
		}
		return nil
	})

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db.Pool,
		Hub:          hub,
		CfgVal:       &cfgVal,
		ScrapeStatus: &scrapeStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		RunScrape:    runScrape,
		Dashboard:    web.Handler(),
	})

	handler := httpapi.Chain(mux,
		httpapi.Recover,
		httpapi.RequestID,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("engine listening on http://127.0.0.1%s (db=%s)", addr, dbPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
