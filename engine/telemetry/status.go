package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khora-engine/khora/gorna"
)

// StatusBoard is the last-reported status per agent; the scheduler
// updates it once per tick and the /status handler reads a snapshot.
type StatusBoard struct {
	mu       sync.RWMutex
	statuses map[string]gorna.AgentStatus
}

func NewStatusBoard() *StatusBoard {
	return &StatusBoard{statuses: make(map[string]gorna.AgentStatus)}
}

func (b *StatusBoard) Report(s gorna.AgentStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[s.AgentID] = s
}

func (b *StatusBoard) Snapshot() []gorna.AgentStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]gorna.AgentStatus, 0, len(b.statuses))
	for _, s := range b.statuses {
		out = append(out, s)
	}
	return out
}

// NewRouter builds the thin read-only HTTP surface: /status for agent
// health, /metrics for the prometheus handler.
func NewRouter(board *StatusBoard, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(board.Snapshot())
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}
