package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("Daemon started")
	p.Field("PID", 4242)
	p.Path("Socket", "/run/pulse/pulsed.sock")
	p.ErrorPretty("Failed to stop daemon", errors.New("no such process"))

	out := buf.String()
	for _, want := range []string{"Daemon started", "PID", "4242", "/run/pulse/pulsed.sock", "no such process"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
}
