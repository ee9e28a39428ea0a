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

func TestParsePorcelain(t *testing.T) {
	out := " M src/a.go\x00A  new.go\x00R  renamed.go\x00old.go\x00?? notes.txt\x00UU conflict.go\x00 D gone.go\x00!! build/\x00"

	changes, err := parsePorcelain(out)
	require.NoError(t, err)

	assert.Equal(t, []core.Change{
		{Path: "src/a.go", Status: core.StatusModified},
		{Path: "new.go", Status: core.StatusAdded, Staged: true},
		{Path: "renamed.go", OldPath: "old.go", Status: core.StatusRenamed, Staged: true},
		{Path: "notes.txt", Status: core.StatusUntracked},
		{Path: "conflict.go", Status: core.StatusUnmerged},
		{Path: "gone.go", Status: core.StatusDeleted},
	}, changes)
}

func TestParsePorcelain_Malformed(t *testing.T) {
	_, err := parsePorcelain("garbage\x00")
	assert.Error(t, err)
}

func TestChanges(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	ctx := context.Background()

	commitFile(t, repo, "tracked.txt", "one\n", "init")
	writeFile(t, repo, "tracked.txt", "two\n")
	writeFile(t, repo, "dir/untracked.txt", "new\n")

	lists, err := NewChanges(repo).Changes(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, core.DefaultChangeList, lists[0].Name)
	assert.Equal(t, []core.Change{{Path: "tracked.txt", Status: core.StatusModified}}, lists[0].Changes)

	assert.Equal(t, core.UnindexedChangeList, lists[1].Name)
	assert.Equal(t, []core.Change{{Path: "dir/untracked.txt", Status: core.StatusUntracked}}, lists[1].Changes)
}

func TestChanges_Clean(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	commitFile(t, repo, "a.txt", "a\n", "init")

	lists, err := NewChanges(repo).Changes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestChanges_Deleted(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	commitFile(t, repo, "a.txt", "a\n", "init")
	require.NoError(t, os.Remove(filepath.Join(repo.Root, "a.txt")))

	lists, err := NewChanges(repo).Changes(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, core.StatusDeleted, lists[0].Changes[0].Status)
}
