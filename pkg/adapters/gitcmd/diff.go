package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Differ reads file content at revisions and renders unified diffs.
type Differ struct {
	repo    *Repository
	Context int
}

// NewDiffer creates a diff provider with three lines of context.
func NewDiffer(repo *Repository) *Differ {
	return &Differ{repo: repo, Context: 3}
}

// CurrentRevision returns the newest local commit touching path.
func (d *Differ) CurrentRevision(ctx context.Context, path string) (*core.Revision, error) {
	rel, err := d.repo.rel(path)
	if err != nil {
		return nil, err
	}
	return d.repo.logRevision(ctx, "HEAD", "--", rel)
}

// LastRevision returns the newest upstream commit touching path,
// falling back to HEAD when the branch has no upstream.
func (d *Differ) LastRevision(ctx context.Context, path string) (*core.Revision, error) {
	rel, err := d.repo.rel(path)
	if err != nil {
		return nil, err
	}
	rev, err := d.repo.logRevision(ctx, "@{upstream}", "--", rel)
	if err != nil {
		return d.repo.logRevision(ctx, "HEAD", "--", rel)
	}
	return rev, nil
}

// Content returns path as of rev, or the working tree file when rev is nil.
func (d *Differ) Content(ctx context.Context, path string, rev *core.Revision) ([]byte, error) {
	rel, err := d.repo.rel(path)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return os.ReadFile(filepath.Join(d.repo.Root, filepath.FromSlash(rel)))
	}
	out, err := d.repo.git.Output(ctx, "show", rev.Hash+":"+rel)
	if err != nil {
		return nil, fmt.Errorf("show %s at %s: %w", rel, rev.Short(), err)
	}
	return out, nil
}

// Diff compares path between from (HEAD when nil) and to (working tree when nil).
// A side where the file does not exist is empty; an unknown revision is an error.
// In a repository without commits HEAD is empty.
func (d *Differ) Diff(ctx context.Context, path string, from, to *core.Revision) (string, error) {
	rel, err := d.repo.rel(path)
	if err != nil {
		return "", err
	}

	if from == nil {
		head, err := d.repo.git.Head(ctx)
		if err != nil {
			return "", err
		}
		if head != "" {
			from = core.NewRevision(head, nil)
		}
	}

	var a []string
	if from != nil {
		if a, err = d.lines(ctx, rel, from); err != nil {
			return "", err
		}
	}
	b, err := d.lines(ctx, rel, to)
	if err != nil {
		return "", err
	}

	toLabel := "working tree"
	if to != nil {
		toLabel = to.Short()
	}

	ud := difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: "a/" + rel,
		FromDate: from.Short(),
		ToFile:   "b/" + rel,
		ToDate:   toLabel,
		Context:  d.Context,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// lines returns the content of rel at rev (the working tree when nil) split into lines.
func (d *Differ) lines(ctx context.Context, rel string, rev *core.Revision) ([]string, error) {
	if rev == nil {
		data, err := os.ReadFile(filepath.Join(d.repo.Root, filepath.FromSlash(rel)))
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return diffLines(data), nil
	}

	ok, err := d.exists(ctx, rel, rev)
	if err != nil || !ok {
		return nil, err
	}
	data, err := d.Content(ctx, rel, rev)
	if err != nil {
		return nil, err
	}
	return diffLines(data), nil
}

// exists reports whether rel is present in the tree of rev. Unknown revisions are an error.
func (d *Differ) exists(ctx context.Context, rel string, rev *core.Revision) (bool, error) {
	if _, err := d.repo.git.Run(ctx, "cat-file", "-e", rev.Hash+"^{commit}"); err != nil {
		return false, fmt.Errorf("unknown revision %s: %w", rev.Short(), err)
	}
	out, err := d.repo.git.Run(ctx, "ls-tree", "--name-only", rev.Hash, "--", rel)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// diffLines splits data after each newline. Empty data has no lines, and a
// missing final newline is added so hunks stay line-terminated.
func diffLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}
