package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"sync/atomic"

	"jobsearcher/internal/events"
	"jobsearcher/internal/pipeline"
	"jobsearcher/internal/store"
)

type RunsHandler struct {
	DB      *sql.DB
	Hub     *events.Hub
	RunOnce func(ctx context.Context) (pipeline.Summary, error)

	running atomic.Bool
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := store.ListRuns(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, runs)
}

// Trigger kicks off a pipeline run in the background. Only one at a time —
// the store has a single writer.
func (h *RunsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.RunOnce == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "not_configured", "pipeline not configured")
		return
	}
	if !h.running.CompareAndSwap(false, true) {
		WriteError(w, r, http.StatusConflict, "run_in_progress", "a run is already in progress")
		return
	}

	go func() {
		defer h.running.Store(false)
		_, _ = h.RunOnce(context.Background())
	}()

	writeJSON(w, map[string]any{"ok": true, "started": true})
}
