package gitcmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gitvcs/pkg/core"
)

func TestSelector(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	ctx := context.Background()
	s := NewSelector(repo)

	first := commitFile(t, repo, "a.txt", "a\n", "first")
	second := commitFile(t, repo, "b.txt", "b\n", "second")
	gitRun(t, repo, "tag", "v1", first.Hash)

	head, err := s.SelectRevision(ctx, "", "")
	require.NoError(t, err)
	assert.True(t, head.Equal(second))

	tagged, err := s.SelectRevision(ctx, "", "v1")
	require.NoError(t, err)
	assert.Equal(t, first.Hash, tagged.Hash)

	parent, err := s.SelectRevision(ctx, "", "HEAD~1")
	require.NoError(t, err)
	assert.Equal(t, first.Hash, parent.Hash)

	// a.txt was last touched by the first commit.
	forFile, err := s.SelectRevision(ctx, "a.txt", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, first.Hash, forFile.Hash)

	byToken, err := s.SelectRevision(ctx, "", second.Short())
	require.NoError(t, err)
	assert.Equal(t, second.Hash, byToken.Hash)

	_, err = s.SelectRevision(ctx, "", "no-such-branch")
	assert.Error(t, err)

	_, err = s.SelectRevision(ctx, "", "--all")
	assert.Error(t, err)
}
