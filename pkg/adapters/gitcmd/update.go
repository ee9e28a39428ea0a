package gitcmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Update integrates upstream changes with `git pull`.
type Update struct {
	repo *Repository
}

// NewUpdate creates an update environment.
func NewUpdate(repo *Repository) *Update {
	return &Update{repo: repo}
}

// Update pulls from the upstream branch using the configured strategy.
func (u *Update) Update(ctx context.Context) (*core.UpdateResult, error) {
	settings := u.repo.Settings()
	args := []string{"pull", "--no-edit"}
	if settings.UpdateStrategy == core.UpdateRebase {
		args = append(args, "--rebase")
	} else {
		args = append(args, "--no-rebase")
	}
	if settings.StashOnUpdate {
		args = append(args, "--autostash")
	}

	result := &core.UpdateResult{}
	err := u.repo.withLock(ctx, func() error {
		before, err := u.repo.logRevision(ctx, "HEAD")
		if err != nil {
			return err
		}
		result.Before = before

		if _, err := u.repo.git.Run(ctx, args...); err != nil {
			return err
		}

		after, err := u.repo.logRevision(ctx, "HEAD")
		if err != nil {
			return err
		}
		result.After = after

		if before != nil && after != nil && before.Hash != after.Hash {
			out, err := u.repo.git.Run(ctx, "diff", "--name-only", before.Hash, after.Hash)
			if err != nil {
				return err
			}
			result.Files = splitLines(out)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}

	if u.repo.logger != nil {
		u.repo.logger.Info("update finished", "files", len(result.Files), "strategy", settings.UpdateStrategy)
	}
	return result, nil
}

// Status fetches the upstream and reports how far HEAD has diverged from it.
func (u *Update) Status(ctx context.Context) (*core.UpdateResult, error) {
	if _, err := u.repo.git.Run(ctx, "fetch", "--quiet"); err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	head, err := u.repo.logRevision(ctx, "HEAD")
	if err != nil {
		return nil, err
	}

	out, err := u.repo.git.Run(ctx, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return nil, fmt.Errorf("no upstream configured: %w", err)
	}
	ahead, behind, err := parseAheadBehind(out)
	if err != nil {
		return nil, err
	}

	return &core.UpdateResult{Before: head, After: head, Ahead: ahead, Behind: behind}, nil
}

func parseAheadBehind(s string) (int, int, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", s)
	}
	ahead, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	behind, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
