package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// Handler serves liveness, readiness, and prometheus metrics over HTTP.
type Handler struct {
	startTime time.Time
	service   string
	gatherer  prometheus.Gatherer
	ready     atomic.Bool
	server    *http.Server
}

// NewHandler creates a health handler. The gatherer backs the /metrics
// endpoint and may be nil to disable it.
func NewHandler(service string, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		startTime: time.Now(),
		service:   service,
		gatherer:  gatherer,
	}
}

// SetReady flips the readiness gate. The bot calls it once the gateway
// connection is up.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Service:   h.service,
		Timestamp: time.Now(),
		Uptime:    time.Since(h.startTime).String(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Ready reports readiness: 200 once the gateway is connected, 503 before.
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !h.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// Mux builds the route table the server uses.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ready", h.Ready)
	if h.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// StartServer serves the endpoints until the listener fails or Shutdown is
// called.
func (h *Handler) StartServer(addr string) error {
	h.server = &http.Server{
		Addr:         addr,
		Handler:      h.Mux(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	return h.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (h *Handler) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}
