package gitcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Changes reports working tree modifications from `git status --porcelain`.
type Changes struct {
	repo *Repository
}

// NewChanges creates a change provider.
func NewChanges(repo *Repository) *Changes {
	return &Changes{repo: repo}
}

// Changes returns tracked changes in the default list and untracked files in the
// unindexed list. Empty lists are omitted.
func (c *Changes) Changes(ctx context.Context) ([]core.ChangeList, error) {
	out, err := c.repo.git.Status(ctx)
	if err != nil {
		return nil, err
	}
	changes, err := parsePorcelain(out)
	if err != nil {
		return nil, err
	}

	var tracked, unindexed []core.Change
	for _, ch := range changes {
		if ch.Status == core.StatusUntracked {
			unindexed = append(unindexed, ch)
		} else {
			tracked = append(tracked, ch)
		}
	}

	var lists []core.ChangeList
	if len(tracked) > 0 {
		lists = append(lists, core.ChangeList{Name: core.DefaultChangeList, Changes: tracked})
	}
	if len(unindexed) > 0 {
		lists = append(lists, core.ChangeList{Name: core.UnindexedChangeList, Changes: unindexed})
	}
	return lists, nil
}

// parsePorcelain parses `git status --porcelain=v1 -z` output.
// Each entry is "XY path\0"; renames and copies are followed by "orig\0".
func parsePorcelain(out string) ([]core.Change, error) {
	var changes []core.Change
	fields := strings.Split(out, "\x00")

	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if entry == "" {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return nil, fmt.Errorf("unexpected status entry %q", entry)
		}
		x, y, path := entry[0], entry[1], entry[3:]

		if x == '!' {
			continue
		}

		ch := core.Change{Path: path}
		switch {
		case x == '?' && y == '?':
			ch.Status = core.StatusUntracked
		case isUnmerged(x, y):
			ch.Status = core.StatusUnmerged
		case x != ' ':
			ch.Status = statusCode(x)
			ch.Staged = true
		default:
			ch.Status = statusCode(y)
		}

		if x == 'R' || x == 'C' {
			if i+1 < len(fields) {
				i++
				ch.OldPath = fields[i]
			}
		}
		changes = append(changes, ch)
	}
	return changes, nil
}

func isUnmerged(x, y byte) bool {
	switch string([]byte{x, y}) {
	case "DD", "AU", "UD", "UA", "DU", "AA", "UU":
		return true
	}
	return false
}

func statusCode(c byte) core.FileStatus {
	switch c {
	case 'A':
		return core.StatusAdded
	case 'D':
		return core.StatusDeleted
	case 'R':
		return core.StatusRenamed
	case 'C':
		return core.StatusCopied
	case 'T':
		return core.StatusTypeChanged
	default:
		return core.StatusModified
	}
}
