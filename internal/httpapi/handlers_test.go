package httpapi_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/httpapi"
	"jobradar-engine/internal/store"
)

type testEnv struct {
	mux    *http.ServeMux
	db     *store.DB
	status *atomic.Value
}

func newTestEnv(t *testing.T, runScrape func(cfg config.Config, onNewJob func()) (int, error)) *testEnv {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	cfgVal := &atomic.Value{}
	cfgVal.Store(config.Config{})

	status := &atomic.Value{}
	status.Store(httpapi.ScrapeStatus{})

	if runScrape == nil {
		runScrape = func(config.Config, func()) (int, error) { return 0, nil }
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:           db.Pool,
		Hub:          events.NewHub(),
		CfgVal:       cfgVal,
		ScrapeStatus: status,
		RunScrape:    runScrape,
	})
	return &testEnv{mux: mux, db: db, status: status}
}

func (e *testEnv) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) insertJob(t *testing.T, title, sourceID string) {
	t.Helper()
	_, err := e.db.Pool.Exec(`
INSERT INTO jobs(company, title, location, work_mode, url, score, tags, date, source_id, seen_from_source)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		"Acme", title, "Remote", "Remote", "https://example.com/"+sourceID, 10, `["junior"]`,
		time.Now().UTC().Format(time.RFC3339), sourceID, "feed")
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["ok"])
}

func TestListJobs(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	env.insertJob(t, "Junior Engineer", "s1")
	env.insertJob(t, "Graduate Dev", "s2")

	rec = env.do(t, http.MethodGet, "/api/jobs?window=all")
	var jobs []store.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 2)

	rec = env.do(t, http.MethodGet, "/api/jobs?window=all&limit=1")
	jobs = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
}

func TestDeleteJob(t *testing.T) {
	env := newTestEnv(t, nil)
	env.insertJob(t, "Doomed", "s1")

	rec := env.do(t, http.MethodGet, "/api/jobs?window=all")
	var jobs []store.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)

	rec = env.do(t, http.MethodDelete, "/api/jobs/abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/jobs/"+strconv.FormatInt(jobs[0].ID, 10))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/jobs?window=all")
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestScrapeRunAndStatus(t *testing.T) {
	env := newTestEnv(t, func(cfg config.Config, onNewJob func()) (int, error) {
		onNewJob()
		onNewJob()
		return 2, nil
	})

	rec := env.do(t, http.MethodPost, "/api/scrape")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK    bool   `json:"ok"`
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.NotEmpty(t, resp.RunID)

	require.Eventually(t, func() bool {
		st := env.status.Load().(httpapi.ScrapeStatus)
		return !st.Running && st.LastAdded == 2
	}, 2*time.Second, 10*time.Millisecond)

	rec = env.do(t, http.MethodGet, "/api/scrape/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var st httpapi.ScrapeStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Equal(t, resp.RunID, st.RunID)
	require.Empty(t, st.LastError)
	require.NotEmpty(t, st.LastOkAt)
}

func TestScrapeRejectedWhileRunning(t *testing.T) {
	env := newTestEnv(t, nil)
	env.status.Store(httpapi.ScrapeStatus{Running: true})

	rec := env.do(t, http.MethodPost, "/api/scrape")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":false,"msg":"already running"}`, rec.Body.String())
}

func TestScrapeRecordsError(t *testing.T) {
	env := newTestEnv(t, func(cfg config.Config, onNewJob func()) (int, error) {
		return 0, errors.New("upstream down")
	})

	rec := env.do(t, http.MethodPost, "/api/scrape")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		st := env.status.Load().(httpapi.ScrapeStatus)
		return !st.Running && st.LastError == "upstream down"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodDelete, "/api/jobs")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/scrape")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
