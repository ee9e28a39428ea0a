package gitcmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Annotator attributes lines with `git blame --porcelain`.
type Annotator struct {
	repo *Repository
}

// NewAnnotator creates an annotation provider.
func NewAnnotator(repo *Repository) *Annotator {
	return &Annotator{repo: repo}
}

// Annotate blames path at rev, or at HEAD when rev is nil.
func (a *Annotator) Annotate(ctx context.Context, path string, rev *core.Revision) (*core.Annotation, error) {
	rel, err := a.repo.rel(path)
	if err != nil {
		return nil, err
	}

	args := []string{"blame", "--porcelain"}
	if rev != nil {
		args = append(args, rev.Hash)
	}
	args = append(args, "--", rel)

	out, err := a.repo.git.Output(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("blame %s: %w", rel, err)
	}

	ann := parseBlame(rel, string(out))
	if rev != nil {
		ann.Revision = rev
	} else if ann.Revision, err = a.repo.logRevision(ctx, "HEAD"); err != nil {
		return nil, err
	}
	return ann, nil
}

type blameCommit struct {
	author  string
	summary string
	time    time.Time
}

// parseBlame parses git blame --porcelain output. Commit headers appear only
// for the first line attributed to each commit.
func parseBlame(path, output string) *core.Annotation {
	ann := &core.Annotation{Path: path}
	if output == "" {
		return ann
	}

	commits := make(map[string]*blameCommit)
	var hash string
	var finalLine int

	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "\t") {
			info := commits[hash]
			if info == nil {
				continue
			}
			ts := info.time
			ann.Lines = append(ann.Lines, core.AnnotationLine{
				LineNo:   finalLine,
				Revision: core.NewRevision(hash, &ts),
				Author:   info.author,
				Summary:  info.summary,
				Content:  line[1:],
			})
			continue
		}

		fields := strings.Fields(line)
		if len(fields) >= 3 && len(fields[0]) == core.HashLength {
			if n, err := strconv.Atoi(fields[2]); err == nil {
				hash = fields[0]
				finalLine = n
				if _, ok := commits[hash]; !ok {
					commits[hash] = &blameCommit{}
				}
				continue
			}
		}

		info := commits[hash]
		if info == nil {
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "author":
			info.author = value
		case "committer-time":
			if ts, err := strconv.ParseInt(value, 10, 64); err == nil {
				info.time = time.Unix(ts, 0).UTC()
			}
		case "summary":
			info.summary = value
		}
	}
	return ann
}
