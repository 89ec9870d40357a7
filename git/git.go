// Package git wraps the handful of git CLI queries the collectors need.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// Executor creates exec.Cmd instances, so tests can substitute the binary.
type Executor interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor runs the git binary found on PATH.
type RealExecutor struct{}

// CommandContext creates a standard context-aware exec.Cmd.
func (RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// Repo is a git working tree on disk.
type Repo struct {
	Dir      string
	executor Executor
}

// Open returns a Repo for dir using the real git binary.
func Open(dir string) *Repo {
	return &Repo{Dir: dir, executor: RealExecutor{}}
}

// OpenWithExecutor returns a Repo that builds commands through exec.
func OpenWithExecutor(dir string, exec Executor) *Repo {
	return &Repo{Dir: dir, executor: exec}
}

// output runs a git command in the repo and returns trimmed stdout.
func (r *Repo) output(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	cmd := r.executor.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether Dir is inside a git repository.
func (r *Repo) IsRepo(ctx context.Context) bool {
	_, err := r.output(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// Root returns the top-level directory of the working tree.
func (r *Repo) Root(ctx context.Context) (string, error) {
	return r.output(ctx, "rev-parse", "--show-toplevel")
}

// HeadCommit returns the full hash of HEAD.
func (r *Repo) HeadCommit(ctx context.Context) (string, error) {
	return r.output(ctx, "rev-parse", "HEAD")
}

// CommitCount returns the number of commits reachable from HEAD.
func (r *Repo) CommitCount(ctx context.Context) (int, error) {
	out, err := r.output(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse commit count %q: %w", out, err)
	}
	return n, nil
}
