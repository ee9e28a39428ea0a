package gitcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/gitvcs/pkg/core"
)

// Selector resolves reference expressions to revisions.
type Selector struct {
	repo *Repository
}

// NewSelector creates a revision selector.
func NewSelector(repo *Repository) *Selector {
	return &Selector{repo: repo}
}

// SelectRevision resolves ref (HEAD when empty) to a commit. When path is set the
// commit must be one that touched path at or before ref; the newest such commit is returned.
func (s *Selector) SelectRevision(ctx context.Context, path, ref string) (*core.Revision, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "HEAD"
	}
	if strings.HasPrefix(ref, "-") {
		return nil, fmt.Errorf("invalid reference %q", ref)
	}

	hash, err := s.repo.git.Run(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil || hash == "" {
		return nil, fmt.Errorf("unknown revision %q", ref)
	}

	args := []string{hash}
	if path != "" {
		rel, err := s.repo.rel(path)
		if err != nil {
			return nil, err
		}
		args = append(args, "--", rel)
	}
	rev, err := s.repo.logRevision(ctx, args...)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, fmt.Errorf("%s has no revision at %q", path, ref)
	}
	return rev, nil
}
