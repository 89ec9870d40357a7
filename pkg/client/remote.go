package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/internal/daemon/store"
)

// RemoteClient implements Client by calling the daemon's HTTP API over a Unix socket.
type RemoteClient struct {
	httpClient *http.Client
	socketPath string
}

// NewRemoteClient creates a new RemoteClient connected to the daemon socket.
func NewRemoteClient(socketPath string) *RemoteClient {
	// Create HTTP client that dials Unix socket
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &RemoteClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		socketPath: socketPath,
	}
}

// baseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the Unix socket, not this URL.
const baseURL = "http://unix"

// do sends a request and decodes a JSON response into out. Error bodies
// from the daemon are decoded back into structured errors.
func (c *RemoteClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDaemonNotRunning, "failed to reach pulse daemon").
			WithDetail("socket", c.socketPath)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		var pe errors.PulseError
		if json.Unmarshal(data, &pe) == nil && pe.Code != "" {
			return &pe
		}
		return fmt.Errorf("daemon returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Snapshot returns the daemon's current snapshot.
func (c *RemoteClient) Snapshot(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/snapshot", nil, &snap)
	return snap, err
}

// Breakdown returns the daemon's intermediate ratios.
func (c *RemoteClient) Breakdown(ctx context.Context) (store.Breakdown, error) {
	var b store.Breakdown
	err := c.do(ctx, http.MethodGet, "/api/breakdown", nil, &b)
	return b, err
}

// Phase returns the record of one phase as its typed struct.
func (c *RemoteClient) Phase(ctx context.Context, phase store.Phase) (any, error) {
	if !phase.Valid() {
		return nil, errors.InvalidPhase(string(phase), store.PhaseNames())
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/phases/"+string(phase), nil, &raw); err != nil {
		return nil, err
	}
	// Decode through Phases so the record gets its concrete type.
	var phases store.Phases
	wrapped, _ := json.Marshal(map[string]json.RawMessage{string(phase): raw})
	if err := json.Unmarshal(wrapped, &phases); err != nil {
		return nil, fmt.Errorf("failed to decode phase %s: %w", phase, err)
	}
	return phases.Record(phase), nil
}

// UpdatePhase sends a partial update to the daemon.
func (c *RemoteClient) UpdatePhase(ctx context.Context, phase store.Phase, fields store.Fields) (store.Snapshot, error) {
	var snap store.Snapshot
	if fields == nil {
		fields = store.Fields{}
	}
	err := c.do(ctx, http.MethodPatch, "/api/phases/"+string(phase), fields, &snap)
	return snap, err
}

// Config returns the daemon's running configuration.
func (c *RemoteClient) Config(ctx context.Context) (*RunningConfig, error) {
	var cfg RunningConfig
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsRunning returns true if the daemon is available and responding.
func (c *RemoteClient) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// StreamSnapshots subscribes to real-time updates via Server-Sent Events (SSE).
func (c *RemoteClient) StreamSnapshots(ctx context.Context) (<-chan Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}

	// Use a separate client with no timeout for streaming
	streamTransport := &http.Transport{
		DialContext: func(dialCtx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(dialCtx, "unix", c.socketPath)
		},
	}
	streamClient := &http.Client{Transport: streamTransport}

	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDaemonNotRunning, "failed to connect to stream").
			WithDetail("socket", c.socketPath)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	ch := make(chan Event, 10)

	go func() {
		defer resp.Body.Close()
		defer close(ch)
		defer streamTransport.CloseIdleConnections()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()

			// Skip comments and empty lines
			if strings.HasPrefix(line, ":") || line == "" {
				continue
			}

			jsonStr, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(jsonStr), &ev); err != nil {
				continue // Skip malformed data
			}

			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close cleans up any resources used by the client.
func (c *RemoteClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Ensure RemoteClient implements Client interface.
var _ Client = (*RemoteClient)(nil)
