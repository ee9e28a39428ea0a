package gitcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Checkin commits changes and schedules additions and deletions.
type Checkin struct {
	repo *Repository
}

// NewCheckin creates a checkin environment.
func NewCheckin(repo *Repository) *Checkin {
	return &Checkin{repo: repo}
}

// Checkin stages paths (including deletions) and commits them.
// With no paths it commits whatever is already staged.
func (c *Checkin) Checkin(ctx context.Context, paths []string, message string) (*core.Revision, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("commit message cannot be empty")
	}
	rel, err := c.repo.relAll(paths)
	if err != nil {
		return nil, err
	}

	err = c.repo.withLock(ctx, func() error {
		if len(rel) > 0 {
			if _, err := c.repo.git.Run(ctx, append([]string{"add", "-A", "--"}, rel...)...); err != nil {
				return err
			}
		}

		staged, err := c.hasStaged(ctx, rel)
		if err != nil {
			return err
		}
		if !staged {
			return core.ErrNothingToCommit
		}

		return c.repo.git.Commit(ctx, message, rel...)
	})
	if err != nil {
		return nil, err
	}

	return c.repo.logRevision(ctx, "HEAD")
}

// hasStaged reports whether the index differs from HEAD for paths (or anywhere).
func (c *Checkin) hasStaged(ctx context.Context, paths []string) (bool, error) {
	head, err := c.repo.git.Head(ctx)
	if err != nil {
		return false, err
	}
	if head == "" {
		// Empty repository: anything in the index is new.
		out, err := c.repo.git.Run(ctx, append([]string{"ls-files", "--"}, paths...)...)
		return out != "", err
	}

	args := append([]string{"diff", "--cached", "--quiet", "--"}, paths...)
	_, err = c.repo.git.Run(ctx, args...)
	if err == nil {
		return false, nil
	}
	if exitCode(err) == 1 {
		return true, nil
	}
	return false, err
}

// ScheduleForAddition adds untracked paths to the index.
func (c *Checkin) ScheduleForAddition(ctx context.Context, paths []string) error {
	rel, err := c.repo.relAll(paths)
	if err != nil || len(rel) == 0 {
		return err
	}
	return c.repo.withLock(ctx, func() error {
		return c.repo.git.Add(ctx, rel...)
	})
}

// ScheduleForDeletion removes paths from the index.
func (c *Checkin) ScheduleForDeletion(ctx context.Context, paths []string) error {
	rel, err := c.repo.relAll(paths)
	if err != nil || len(rel) == 0 {
		return err
	}
	return c.repo.withLock(ctx, func() error {
		return c.repo.git.Rm(ctx, rel...)
	})
}
