package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/pkg/client"
	"github.com/grovetools/pulse/testutil"
)

// useLocalClient points the commands at one shared in-process store.
func useLocalClient(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()
	prev := newClient
	newClient = func() client.Client { return client.NewLocalClient(st) }
	t.Cleanup(func() { newClient = prev })
	return st
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSnapshotCommand(t *testing.T) {
	useLocalClient(t)

	out, err := run(t, "snapshot")
	require.NoError(t, err)
	for _, want := range []string{"Overall", "92%", "Phases", "Design", "Monitor", "in-progress"} {
		assert.Contains(t, out, want)
	}

	out, err = run(t, "snapshot", "--json")
	require.NoError(t, err)
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, store.Seed().Overall, snap.Overall)
}

func TestPhaseCommand(t *testing.T) {
	useLocalClient(t)

	out, err := run(t, "phase", "QA")
	require.NoError(t, err)
	assert.Contains(t, out, "testsPassed")
	assert.Contains(t, out, "394")
	assert.Contains(t, strings.ToLower(out), "last updated")

	_, err = run(t, "phase", "release")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPhase))
}

func TestUpdateCommand(t *testing.T) {
	st := useLocalClient(t)

	out, err := run(t, "update", "qa", "testsPassed=400", "testsFailed=8", "--json")
	require.NoError(t, err)
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 400.0, snap.Phases.QA.TestsPassed)
	assert.Equal(t, 400.0, st.Snapshot().Phases.QA.TestsPassed)

	out, err = run(t, "update", "deploy", "errorRate=2.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Deploy (1 fields)")

	_, err = run(t, "update", "qa", "testsPassed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = run(t, "update", "qa", "bogus=1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidField))
	assert.Equal(t, 400.0, st.Snapshot().Phases.QA.TestsPassed, "rejected update leaves the store alone")
}

func TestUpdateHelpListsFields(t *testing.T) {
	out, err := run(t, "update", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "FIELDS")
	for _, p := range store.AllPhases {
		assert.Contains(t, out, string(p))
		for _, name := range store.FieldNames(p) {
			assert.Contains(t, out, name, "phase %s", p)
		}
	}
	assert.NotContains(t, out, "lastUpdated")
	assert.Contains(t, out, "EXAMPLES")
}

func TestRenderPhaseValues(t *testing.T) {
	var buf bytes.Buffer
	seed := store.Seed()
	renderPhase(&buf, store.PhaseBuild, seed.Phases.Build, store.SeedTime.Add(time.Hour))
	out := buf.String()
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "4.5")
	assert.Contains(t, out, "156")
	assert.Contains(t, strings.ToLower(out), "1 hour ago")
}

func TestUpdatedLabel(t *testing.T) {
	now := time.Date(2024, 1, 16, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "never", updatedLabel(time.Time{}, now))
	assert.Contains(t, updatedLabel(now.Add(-2*time.Minute), now), "2 minutes ago")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "250,000", formatValue(250000))
	assert.Equal(t, "99.7", formatValue(99.7))
	assert.Equal(t, "0", formatValue(0))
}

func TestLatestLogFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, latestLogFile(dir, "pulsed"))
	assert.Empty(t, latestLogFile("", "pulsed"))

	for _, name := range []string{"pulsed-2024-01-15.log", "pulsed-2024-01-16.log", "pulse-cli-2024-01-17.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	assert.Equal(t, filepath.Join(dir, "pulsed-2024-01-16.log"), latestLogFile(dir, "pulsed"))
}

func TestPrintLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulsed.log")
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, "line "+string(rune('0'+i%10)))
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, printLastLines(&buf, path, 3))
	assert.Equal(t, "line 8\nline 9\nline 0\n", buf.String())

	buf.Reset()
	require.NoError(t, printLastLines(&buf, path, 0))
	assert.Equal(t, 10, strings.Count(buf.String(), "\n"))

	assert.Error(t, printLastLines(&buf, filepath.Join(t.TempDir(), "missing.log"), 3))
}

func TestConfigCommands(t *testing.T) {
	cfgPath := testutil.WriteConfig(t, t.TempDir(), "pulse.yml", "version: \"1.0\"\ndaemon:\n  simulation_interval: 10s\n")

	out, err := run(t, "config", "show", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "# Source: "+cfgPath)
	assert.Contains(t, out, "simulation_interval: 10s")

	out, err = run(t, "config", "schema")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}
