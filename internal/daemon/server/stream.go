package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/pulse/internal/daemon/store"
)

const (
	updateInitial      = "initial"
	updateSnapshot     = "snapshot"
	updateConfigReload = "config_reload"

	clientBuffer = 64
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// apiEvent matches client.Event for SSE and WebSocket streaming.
type apiEvent struct {
	UpdateType string          `json:"update_type"`
	Source     string          `json:"source,omitempty"`
	Phase      store.Phase     `json:"phase,omitempty"`
	Snapshot   *store.Snapshot `json:"snapshot,omitempty"`
	ConfigFile string          `json:"config_file,omitempty"`
}

// hub fans events out to connected stream clients. Sends never block: a
// client whose buffer is full misses that event.
type hub struct {
	logger *logrus.Entry

	mu      sync.Mutex
	latest  store.Snapshot
	clients map[string]chan apiEvent
}

func newHub(logger *logrus.Entry, initial store.Snapshot) *hub {
	return &hub{
		logger:  logger,
		latest:  initial,
		clients: make(map[string]chan apiEvent),
	}
}

// add registers a client. Its initial event carries the snapshot of the
// last broadcast, and its channel receives exactly the events broadcast
// after that one.
func (h *hub) add() (string, apiEvent, <-chan apiEvent) {
	id := uuid.New().String()
	ch := make(chan apiEvent, clientBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = ch
	snap := h.latest
	return id, apiEvent{UpdateType: updateInitial, Source: "store", Snapshot: &snap}, ch
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

func (h *hub) broadcast(ev apiEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ev.UpdateType == updateSnapshot && ev.Snapshot != nil {
		h.latest = *ev.Snapshot
	}
	for id, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.logger.WithField("client", id).Warn("Stream client too slow, dropping event")
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// relay returns the store observer that turns snapshots into events.
// The store calls observers one at a time, so prev needs no lock.
func (s *Server) relay(initial store.Snapshot) store.Observer {
	prev := initial
	return func(snap store.Snapshot) {
		ev := apiEvent{
			UpdateType: updateSnapshot,
			Source:     "store",
			Phase:      changedPhase(prev, snap),
			Snapshot:   &snap,
		}
		prev = snap
		s.hub.broadcast(ev)
	}
}

// changedPhase returns the phase whose stamp moved between two snapshots.
func changedPhase(prev, next store.Snapshot) store.Phase {
	for _, p := range store.AllPhases {
		if !next.Phases.LastUpdated(p).Equal(prev.Phases.LastUpdated(p)) {
			return p
		}
	}
	return ""
}

// handleStream provides Server-Sent Events (SSE) for real-time snapshot updates.
// The first event carries the current snapshot; one event follows per update.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	// Ensure the connection supports flushing
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, initial, ch := s.hub.add()
	defer s.hub.remove(id)
	s.metrics.ClientConnected()
	defer s.metrics.ClientDisconnected()

	logger := s.logger.WithField("client", id)
	logger.Debug("SSE client connected")

	// Send initial ping to confirm connection
	fmt.Fprintf(w, ": connected\n\n")
	writeSSE(w, initial)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := writeSSE(w, ev); err != nil {
				logger.WithError(err).Error("Failed to write event")
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSE writes one event in SSE format: "data: {json}\n\n".
func writeSSE(w http.ResponseWriter, ev apiEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// handleWebSocket streams the same events as JSON text frames.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	id, initial, ch := s.hub.add()
	defer s.hub.remove(id)
	s.metrics.ClientConnected()
	defer s.metrics.ClientDisconnected()

	logger := s.logger.WithField("client", id)
	logger.Debug("WebSocket client connected")

	// The reader only watches for the peer going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.WithError(err).Debug("WebSocket read error")
				}
				return
			}
		}
	}()

	write := func(ev apiEvent) error {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(ev)
	}

	if err := write(initial); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			logger.Debug("WebSocket client disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "daemon shutting down"))
				return
			}
			if err := write(ev); err != nil {
				logger.WithError(err).Debug("WebSocket write error")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
