package gitcmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/gitvcs/pkg/core"
)

// History lists file revisions with `git log --follow`.
type History struct {
	repo *Repository
}

// NewHistory creates a history provider.
func NewHistory(repo *Repository) *History {
	return &History{repo: repo}
}

// History returns up to limit revisions of path, newest first. limit <= 0 means all.
// Renames are followed; each entry carries the path the file had in that revision.
func (h *History) History(ctx context.Context, path string, limit int) ([]core.FileRevision, error) {
	rel, err := h.repo.rel(path)
	if err != nil {
		return nil, err
	}

	args := []string{"log", "--follow", "--name-only", "--format=%x1e%H%x00%an%x00%cI%x00%s"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, "--", rel)

	out, err := h.repo.git.Run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", rel, err)
	}
	return parseHistory(out, rel)
}

func parseHistory(out, path string) ([]core.FileRevision, error) {
	var revs []core.FileRevision
	for _, record := range strings.Split(out, "\x1e") {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		lines := strings.Split(record, "\n")
		fields := strings.SplitN(lines[0], "\x00", 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("unexpected log record %q", lines[0])
		}
		date, err := time.Parse(time.RFC3339, fields[2])
		if err != nil {
			return nil, fmt.Errorf("unexpected commit date %q: %w", fields[2], err)
		}

		fr := core.FileRevision{
			Revision: core.NewRevision(fields[0], &date),
			Path:     path,
			Author:   fields[1],
			Date:     date,
			Message:  fields[3],
		}
		for _, l := range lines[1:] {
			if l = strings.TrimSpace(l); l != "" {
				fr.Path = l
				break
			}
		}
		revs = append(revs, fr)
	}
	return revs, nil
}
