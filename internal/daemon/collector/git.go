package collector

import (
	"context"
	"time"

	"github.com/grovetools/pulse/git"
	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/sirupsen/logrus"
)

// DefaultGitInterval is how often the git collector recounts commits.
const DefaultGitInterval = 30 * time.Second

// GitCollector feeds code.commits from a real repository.
type GitCollector struct {
	repo     *git.Repo
	interval time.Duration
	logger   *logrus.Entry
}

// NewGitCollector creates a GitCollector for the repository at repoDir.
func NewGitCollector(repoDir string, interval time.Duration, logger *logrus.Entry) *GitCollector {
	return newGitCollector(git.Open(repoDir), interval, logger)
}

func newGitCollector(repo *git.Repo, interval time.Duration, logger *logrus.Entry) *GitCollector {
	if interval <= 0 {
		interval = DefaultGitInterval
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &GitCollector{
		repo:     repo,
		interval: interval,
		logger:   logger.WithField("repo", repo.Dir),
	}
}

// Name returns the collector's name.
func (c *GitCollector) Name() string { return "git" }

// Run recounts commits on every tick and emits an update when the count
// differs from the store. Git failures are logged and retried next tick.
func (c *GitCollector) Run(ctx context.Context, st *store.Store, updates chan<- store.Update) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	scan := func() bool {
		count, err := c.repo.CommitCount(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.WithError(err).Warn("Failed to count commits")
			}
			return true
		}
		if float64(count) == st.Snapshot().Phases.Code.Commits {
			return true
		}
		return emit(ctx, updates, store.Update{
			Phase:  store.PhaseCode,
			Fields: store.Fields{"commits": count},
			Source: c.Name(),
		})
	}

	if !scan() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !scan() {
				return nil
			}
		}
	}
}
