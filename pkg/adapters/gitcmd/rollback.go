package gitcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Rollback restores files to their HEAD state.
type Rollback struct {
	repo *Repository
}

// NewRollback creates a rollback environment.
func NewRollback(repo *Repository) *Rollback {
	return &Rollback{repo: repo}
}

// Rollback reverts each change. Added files are unindexed but kept on disk,
// renamed files are moved back, everything else is checked out from HEAD.
// Untracked files are left alone. Per-change failures are joined.
func (r *Rollback) Rollback(ctx context.Context, changes []core.Change) error {
	var unindex, restore []string
	for _, ch := range changes {
		path, err := r.repo.rel(ch.Path)
		if err != nil {
			return err
		}
		switch ch.Status {
		case core.StatusUntracked:
			continue
		case core.StatusAdded, core.StatusCopied:
			unindex = append(unindex, path)
		case core.StatusRenamed:
			unindex = append(unindex, path)
			if ch.OldPath != "" {
				old, err := r.repo.rel(ch.OldPath)
				if err != nil {
					return err
				}
				restore = append(restore, old)
			}
		default:
			restore = append(restore, path)
		}
	}

	return r.repo.withLock(ctx, func() error {
		var errs []error
		if err := r.repo.git.Rm(ctx, unindex...); err != nil {
			errs = append(errs, fmt.Errorf("unindex: %w", err))
		}
		if err := r.checkout(ctx, restore); err != nil {
			errs = append(errs, fmt.Errorf("restore: %w", err))
		}
		return errors.Join(errs...)
	})
}

// RollbackMissingDeletion brings back files deleted from the working tree.
func (r *Rollback) RollbackMissingDeletion(ctx context.Context, paths []string) error {
	rel, err := r.repo.relAll(paths)
	if err != nil {
		return err
	}
	return r.repo.withLock(ctx, func() error {
		return r.checkout(ctx, rel)
	})
}

func (r *Rollback) checkout(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := r.repo.git.Run(ctx, append([]string{"checkout", "HEAD", "--"}, paths...)...)
	return err
}
