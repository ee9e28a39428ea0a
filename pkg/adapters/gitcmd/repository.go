// Package gitcmd implements the VCS capabilities on top of the git command line.
package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/gitvcs/pkg/core"
	"github.com/aretw0/gitvcs/pkg/git"
)

// Config holds the configuration for a git-backed repository.
type Config struct {
	Root     string
	Settings core.Settings
	Logger   *slog.Logger
	Env      []string // extra environment for git, e.g. author identity in tests
}

// Repository is the working tree shared by all capability adapters.
type Repository struct {
	Root   string
	git    *git.Client
	logger *slog.Logger

	mu       sync.RWMutex
	settings core.Settings
}

// NewRepository creates a repository rooted at config.Root.
func NewRepository(config Config) *Repository {
	settings := config.Settings.Normalize()
	client := git.NewClient(config.Root, settings.GitExecutable, config.Logger)
	client.Env = config.Env
	return &Repository{
		Root:     config.Root,
		git:      client,
		settings: settings,
		logger:   config.Logger,
	}
}

// Client exposes the underlying git client.
func (r *Repository) Client() *git.Client {
	return r.git
}

// Settings returns the settings in effect.
func (r *Repository) Settings() core.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// SetSettings replaces the settings used by later operations, including the git executable.
// It matches the Configurable.OnApply callback signature.
func (r *Repository) SetSettings(s core.Settings) {
	s = s.Normalize()
	r.mu.Lock()
	r.settings = s
	r.mu.Unlock()
	r.git.SetExecutable(s.GitExecutable)
}

// rel converts path to a slash-separated path relative to the root.
// Relative inputs are taken as already relative to the root.
func (r *Repository) rel(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), nil
	}
	rel, err := filepath.Rel(r.Root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside repository %s", path, r.Root)
	}
	return filepath.ToSlash(rel), nil
}

func (r *Repository) relAll(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rp, err := r.rel(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, nil
}

// withLock runs fn while holding the client lock.
func (r *Repository) withLock(ctx context.Context, fn func() error) error {
	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// logRevision resolves the newest commit matching args (e.g. "HEAD", "--", path).
// It returns nil without error when nothing matches.
func (r *Repository) logRevision(ctx context.Context, args ...string) (*core.Revision, error) {
	out, err := r.git.Run(ctx, append([]string{"log", "-1", "--format=%H%x00%cI"}, args...)...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return parseHashDate(out)
}

func parseHashDate(s string) (*core.Revision, error) {
	hash, date, ok := strings.Cut(s, "\x00")
	if !ok {
		return nil, fmt.Errorf("unexpected log output %q", s)
	}
	ts, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return nil, fmt.Errorf("unexpected commit date %q: %w", date, err)
	}
	return core.NewRevision(hash, &ts), nil
}

// exitCode returns the exit status of a failed git command, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

var (
	_ core.ChangeProvider      = (*Changes)(nil)
	_ core.CheckinEnvironment  = (*Checkin)(nil)
	_ core.RollbackEnvironment = (*Rollback)(nil)
	_ core.UpdateEnvironment   = (*Update)(nil)
	_ core.AnnotationProvider  = (*Annotator)(nil)
	_ core.DiffProvider        = (*Differ)(nil)
	_ core.HistoryProvider     = (*History)(nil)
	_ core.RevisionSelector    = (*Selector)(nil)
	_ core.Configurable        = (*Configurable)(nil)
)
