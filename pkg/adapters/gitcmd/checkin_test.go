package gitcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gitvcs/pkg/core"
)

func TestCheckin_ReturnsRevision(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())

	rev := commitFile(t, repo, "a.txt", "a\n", "first")
	require.NotNil(t, rev)
	assert.Len(t, rev.Hash, core.HashLength)
	assert.True(t, rev.HasTimestamp())
	assert.Equal(t, gitRun(t, repo, "rev-parse", "HEAD"), rev.Hash)
	assert.Equal(t, "first", gitRun(t, repo, "log", "-1", "--format=%s"))
}

func TestCheckin_NothingToCommit(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	commitFile(t, repo, "a.txt", "a\n", "first")

	_, err := NewCheckin(repo).Checkin(context.Background(), []string{"a.txt"}, "again")
	assert.ErrorIs(t, err, core.ErrNothingToCommit)

	_, err = NewCheckin(repo).Checkin(context.Background(), nil, "again")
	assert.ErrorIs(t, err, core.ErrNothingToCommit)
}

func TestCheckin_EmptyMessage(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	writeFile(t, repo, "a.txt", "a\n")
	_, err := NewCheckin(repo).Checkin(context.Background(), []string{"a.txt"}, "  ")
	assert.Error(t, err)
}

func TestCheckin_OnlyGivenPaths(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	ctx := context.Background()
	commitFile(t, repo, "a.txt", "a\n", "first")
	commitFile(t, repo, "b.txt", "b\n", "second")

	writeFile(t, repo, "a.txt", "a2\n")
	writeFile(t, repo, "b.txt", "b2\n")

	_, err := NewCheckin(repo).Checkin(ctx, []string{filepath.Join(repo.Root, "a.txt")}, "only a")
	require.NoError(t, err)

	assert.Equal(t, "a.txt", gitRun(t, repo, "show", "--name-only", "--format=", "HEAD"))
	assert.Equal(t, "M b.txt", gitRun(t, repo, "status", "--porcelain"))
}

func TestCheckin_Deletion(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	commitFile(t, repo, "a.txt", "a\n", "first")
	require.NoError(t, os.Remove(filepath.Join(repo.Root, "a.txt")))

	_, err := NewCheckin(repo).Checkin(context.Background(), []string{"a.txt"}, "remove a")
	require.NoError(t, err)
	assert.Empty(t, gitRun(t, repo, "ls-files"))
}

func TestCheckin_Schedule(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	ctx := context.Background()
	c := NewCheckin(repo)
	commitFile(t, repo, "old.txt", "old\n", "first")

	writeFile(t, repo, "new.txt", "new\n")
	require.NoError(t, c.ScheduleForAddition(ctx, []string{"new.txt"}))
	tracked, err := repo.git.IsTracked(ctx, "new.txt")
	require.NoError(t, err)
	assert.True(t, tracked)

	require.NoError(t, os.Remove(filepath.Join(repo.Root, "old.txt")))
	require.NoError(t, c.ScheduleForDeletion(ctx, []string{"old.txt"}))
	tracked, err = repo.git.IsTracked(ctx, "old.txt")
	require.NoError(t, err)
	assert.False(t, tracked)

	require.NoError(t, c.ScheduleForAddition(ctx, nil))
}

func TestFormatCommitMessage(t *testing.T) {
	assert.Equal(t, "feat(cli): add watch", FormatCommitMessage(CommitTypeFeat, "cli", "add watch", ""))
	assert.Equal(t, "chore: tidy\n\nlonger body", FormatCommitMessage("", "", " tidy ", "longer body\n"))
	assert.Equal(t, "first line", Subject("first line\n\nbody"))
}
