// Package testutil holds fixtures shared by pulse tests: scratch git
// repositories for the git collector and config files for the loaders.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test if the git binary is not on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// InitGitRepo creates an empty repository in a new temp dir with a commit
// identity configured, and returns the dir.
func InitGitRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	RunGitCommand(t, dir, "init")
	RunGitCommand(t, dir, "config", "user.name", "Test User")
	RunGitCommand(t, dir, "config", "user.email", "test@example.com")
	RunGitCommand(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

// RunGitCommand runs git in dir and fails the test with git's output on error.
func RunGitCommand(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s failed with output: %s", strings.Join(args, " "), string(output))
}

// CreateCommit writes filename with its own name as content and commits it.
func CreateCommit(t *testing.T, dir, filename string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(filename), 0o644))
	RunGitCommand(t, dir, "add", filename)
	RunGitCommand(t, dir, "commit", "-m", "Add "+filename)
}

// WriteConfig writes content to name inside dir and returns the path.
func WriteConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
