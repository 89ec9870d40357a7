package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/version"
)

func newTestRoot(runErr error) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	root := NewStandardCommand("pulse", "test root")
	root.AddCommand(&cobra.Command{
		Use: "fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runErr
		},
	})
	root.AddCommand(NewVersionCommand("pulse"))

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	return root, &stdout, &stderr
}

func TestErrorHandlerMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config not found", errors.ConfigNotFound("/tmp/pulse.yml"), "Configuration not found"},
		{"config invalid", errors.ConfigInvalid("bad").WithDetail("path", "/tmp/pulse.yml"), "Check /tmp/pulse.yml"},
		{"invalid phase", errors.InvalidPhase("ops", []string{"design"}), "unknown phase 'ops'"},
		{"invalid field", errors.InvalidField("qa", fmt.Errorf("bogus")), "pulse phase qa"},
		{"daemon not running", errors.DaemonNotRunning("/tmp/pulse.sock"), "pulse daemon start"},
		{"daemon running", errors.DaemonRunning(42), "pulse daemon stop"},
		{"plain", fmt.Errorf("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &ErrorHandler{Out: &buf}
			assert.Equal(t, tt.err, h.Handle(tt.err))
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "Error details")
		})
	}
}

func TestErrorHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: true, Out: &buf}
	h.Handle(errors.DaemonRunning(7))

	assert.Contains(t, buf.String(), "Error details")
	assert.Contains(t, buf.String(), `"code": "DAEMON_RUNNING"`)
}

func TestErrorHandlerNil(t *testing.T) {
	var buf bytes.Buffer
	h := &ErrorHandler{Out: &buf}
	assert.NoError(t, h.Handle(nil))
	assert.Empty(t, buf.String())
}

func TestExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		root, _, stderr := newTestRoot(nil)
		root.SetArgs([]string{"fail"})
		assert.Equal(t, 0, Execute(root))
		assert.Empty(t, stderr.String())
	})

	t.Run("structured error", func(t *testing.T) {
		root, _, stderr := newTestRoot(errors.InvalidPhase("ops", []string{"design", "code"}))
		root.SetArgs([]string{"fail"})
		assert.Equal(t, 1, Execute(root))
		assert.Contains(t, stderr.String(), "unknown phase 'ops'")
	})

	t.Run("plain error", func(t *testing.T) {
		root, _, stderr := newTestRoot(fmt.Errorf("something broke"))
		root.SetArgs([]string{"fail"})
		assert.Equal(t, 1, Execute(root))
		assert.Contains(t, stderr.String(), "something broke")
		assert.Contains(t, stderr.String(), "pulse fail --help")
	})

	t.Run("unknown command", func(t *testing.T) {
		root, _, stderr := newTestRoot(nil)
		root.SetArgs([]string{"nope"})
		assert.Equal(t, 1, Execute(root))
		assert.Contains(t, stderr.String(), "unknown command")
	})
}

func TestVersionCommandJSON(t *testing.T) {
	root, stdout, _ := newTestRoot(nil)
	root.SetArgs([]string{"version", "--json"})
	require.Equal(t, 0, Execute(root))

	var info version.Info
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestGetOptions(t *testing.T) {
	root, _, _ := newTestRoot(nil)
	require.NoError(t, root.ParseFlags([]string{"-v", "--json", "-c", "/tmp/pulse.yml"}))

	opts := GetOptions(root)
	assert.Equal(t, CommandOptions{ConfigFile: "/tmp/pulse.yml", Verbose: true, JSONOutput: true}, opts)
}
