// Package server provides the HTTP API of the pulse daemon.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/internal/daemon/metrics"
	"github.com/grovetools/pulse/internal/daemon/store"
)

// RunningConfig holds the active settings being used by the daemon.
// This is exposed via the /api/config endpoint so clients can verify what config is active.
type RunningConfig struct {
	ConfigFile         string        `json:"config_file,omitempty"`
	Simulation         bool          `json:"simulation"`
	SimulationInterval time.Duration `json:"simulation_interval"`
	GitRepo            string        `json:"git_repo,omitempty"`
	GitInterval        time.Duration `json:"git_interval"`
	Listen             string        `json:"listen,omitempty"`
	Collectors         []string      `json:"collectors"`
	StartedAt          time.Time     `json:"started_at"`
}

// Server serves the store over a Unix socket and, optionally, TCP.
type Server struct {
	logger        *logrus.Entry
	store         *store.Store
	metrics       *metrics.Recorder
	hub           *hub
	upgrader      websocket.Upgrader
	detach        func()
	runningConfig *RunningConfig

	mu      sync.Mutex
	servers []*http.Server
}

// New creates a Server for st. It starts relaying store updates to stream
// clients immediately.
func New(st *store.Store, rec *metrics.Recorder, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	initial := st.Snapshot()
	s := &Server{
		logger:  logger,
		store:   st,
		metrics: rec,
		hub:     newHub(logger, initial),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.detach = st.Subscribe(s.relay(initial))
	return s
}

// SetRunningConfig sets the running configuration for the server.
func (s *Server) SetRunningConfig(cfg *RunningConfig) {
	s.runningConfig = cfg
}

// Handler returns the routed API with h2c support.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snapshot", s.handleGetSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/breakdown", s.handleGetBreakdown).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleGetSummary).Methods(http.MethodGet)
	api.HandleFunc("/phases/{phase}", s.handleGetPhase).Methods(http.MethodGet)
	api.HandleFunc("/phases/{phase}", s.handleUpdatePhase).Methods(http.MethodPatch, http.MethodPost)
	api.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	api.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleGetConfig).Methods(http.MethodGet)

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	return h2c.NewHandler(r, &http2.Server{})
}

// ListenAndServe starts the daemon on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	// Cleanup stale socket
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	// Set restrictive permissions on socket
	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.WithField("socket", socketPath).Info("Daemon listening")
	return s.serve(listener)
}

// ListenAndServeTCP additionally serves the API on a TCP address.
func (s *Server) ListenAndServeTCP(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.logger.WithField("addr", listener.Addr().String()).Info("Daemon listening on TCP")
	return s.serve(listener)
}

func (s *Server) serve(listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.servers = append(s.servers, srv)
	s.mu.Unlock()

	if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops every listener and disconnects stream clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.detach()
	s.hub.closeAll()

	s.mu.Lock()
	servers := s.servers
	s.servers = nil
	s.mu.Unlock()

	var firstErr error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BroadcastConfigReload tells stream clients that the config file changed.
func (s *Server) BroadcastConfigReload(configFile string) {
	s.hub.broadcast(apiEvent{
		UpdateType: updateConfigReload,
		Source:     "config_watcher",
		ConfigFile: configFile,
	})
}

// handleGetSnapshot returns the complete KPI snapshot as JSON.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Breakdown())
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, store.PhaseSummary(s.store.Snapshot()))
}

// handleGetPhase returns a single phase record.
func (s *Server) handleGetPhase(w http.ResponseWriter, r *http.Request) {
	phase, err := store.ParsePhase(mux.Vars(r)["phase"])
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := s.store.Phase(phase)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleUpdatePhase merges a JSON object of fields into one phase and
// returns the new snapshot.
func (s *Server) handleUpdatePhase(w http.ResponseWriter, r *http.Request) {
	phase, err := store.ParsePhase(mux.Vars(r)["phase"])
	if err != nil {
		writeError(w, err)
		return
	}

	var fields store.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeInvalidInput, "request body must be a JSON object of fields"))
		return
	}

	if err := s.store.UpdatePhase(phase, fields); err != nil {
		writeError(w, err)
		return
	}
	s.logger.WithFields(logrus.Fields{"phase": phase, "fields": len(fields)}).Debug("Phase updated via API")
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// handleGetConfig returns the running configuration as JSON.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if s.runningConfig == nil {
		http.Error(w, "config not initialized", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.runningConfig)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps invalid-argument errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	pe, ok := errors.As(err)
	if !ok {
		pe = errors.Wrap(err, errors.ErrCodeInternal, "internal error")
	}
	status := http.StatusInternalServerError
	if pe.IsInvalidArgument() {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(pe.ToJSON()))
}
