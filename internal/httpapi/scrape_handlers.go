package httpapi

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
)

type ScrapeHandler struct {
	CfgVal       *atomic.Value // config.Config
	ScrapeStatus *atomic.Value // httpapi.ScrapeStatus
	Hub          *events.Hub
	RunScrape    func(cfg config.Config, onNewJob func()) (added int, err error)
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ScrapeStatus.Load().(ScrapeStatus)
	writeJSON(w, st)
}

// Run triggers a scrape in the background and returns immediately; a second
// trigger while one is in flight is rejected.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.ScrapeStatus.Load().(ScrapeStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	runID := uuid.NewString()
	h.ScrapeStatus.Store(ScrapeStatus{
		RunID:     runID,
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastError: "",
		LastAdded: 0,
		LastOkAt:  st.LastOkAt,
	})

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, "scrape_started", 1, map[string]any{"run_id": runID}))

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		added, err := h.RunScrape(cfg, func() {
			h.Hub.Publish(events.MakeEvent("", "job_created", 1, nil))
		})

		now := time.Now().Format(time.RFC3339)
		next := h.ScrapeStatus.Load().(ScrapeStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastAdded = added
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.ScrapeStatus.Store(next)

		h.Hub.Publish(events.MakeEvent("", "scrape_finished", 1, map[string]any{
			"run_id": runID,
			"added":  added,
		}))
	}()

	writeJSON(w, map[string]any{"ok": true, "run_id": runID})
}
