package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/pulse/internal/daemon/store"
)

func TestAttachPrimesAndTracksUpdates(t *testing.T) {
	st := store.New()
	r := NewRecorder()

	detach := r.Attach(st)
	assert.Equal(t, 92.0, testutil.ToFloat64(r.overall.WithLabelValues("health")))
	assert.Equal(t, 342.0, testutil.ToFloat64(r.phaseValue.WithLabelValues("code", "commits")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.updates))

	require.NoError(t, st.UpdateCode(store.Fields{"commits": 360}))

	snap := st.Snapshot()
	assert.Equal(t, 360.0, testutil.ToFloat64(r.phaseValue.WithLabelValues("code", "commits")))
	assert.Equal(t, float64(snap.Overall.Progress), testutil.ToFloat64(r.overall.WithLabelValues("progress")))
	assert.Equal(t, float64(snap.Phases.Code.LastUpdated.Unix()), testutil.ToFloat64(r.phaseUpdated.WithLabelValues("code")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.updates))

	detach()
	require.NoError(t, st.UpdateCode(store.Fields{"commits": 400}))
	assert.Equal(t, 360.0, testutil.ToFloat64(r.phaseValue.WithLabelValues("code", "commits")))
}

func TestStreamClientGauge(t *testing.T) {
	r := NewRecorder()
	r.ClientConnected()
	r.ClientConnected()
	r.ClientDisconnected()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.streamClients))
}

func TestHandlerExposesGauges(t *testing.T) {
	r := NewRecorder()
	r.Observe(store.Seed())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pulse_overall_score{score="quality"} 88`)
	assert.Contains(t, string(body), `pulse_phase_value{field="uptime",phase="deploy"} 99.7`)
}
