package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gitvcs"
	"github.com/aretw0/gitvcs/pkg/core"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseRevCommand(t *testing.T) {
	out, err := execute(t, "parse-rev", "2024-01-01T00:00:00Z[abcdef0123456789abcdef0123456789abcdef01")
	require.NoError(t, err)
	assert.Contains(t, out, "hash: abcdef0123456789abcdef0123456789abcdef01")
	assert.Contains(t, out, "date: 2024-01-01T00:00:00Z")

	out, err = execute(t, "parse-rev", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "hash: abc123\n", out)
}

func TestParseRevCommand_Malformed(t *testing.T) {
	_, err := execute(t, "parse-rev", strings.Repeat("a", 41))
	require.ErrorIs(t, err, core.ErrMalformedRevision)
}

func TestSetKey(t *testing.T) {
	s := core.DefaultSettings()
	require.NoError(t, setKey(&s, "update_strategy=rebase"))
	require.NoError(t, setKey(&s, "ignore=build/**, *.tmp"))
	require.NoError(t, setKey(&s, "add_confirmation=silently"))
	require.NoError(t, setKey(&s, "debounce=200ms"))

	assert.Equal(t, core.UpdateRebase, s.UpdateStrategy)
	assert.Equal(t, []string{"build/**", "*.tmp"}, s.Ignore)
	assert.Equal(t, core.ConfirmSilently, s.AddConfirmation)
	assert.Equal(t, "200ms", s.Debounce.String())

	assert.Error(t, setKey(&s, "nope=1"))
	assert.Error(t, setKey(&s, "add_confirmation=maybe"))
	assert.Error(t, setKey(&s, "missing-equals"))
}

func TestPromptConfirmer(t *testing.T) {
	var out bytes.Buffer
	confirm := promptConfirmer(strings.NewReader("y\nno\n"), &out)

	assert.Equal(t, []string{"a.txt"}, confirm("add", []string{"a.txt"}))
	assert.Nil(t, confirm("remove", []string{"b.txt"}))
	assert.Contains(t, out.String(), "Add 1 file(s) in git?")
	assert.Contains(t, out.String(), "Remove 1 file(s) in git?")
}

func TestCommitWorkflow(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	for _, kv := range [][2]string{
		{"GIT_AUTHOR_NAME", "Tester"}, {"GIT_AUTHOR_EMAIL", "tester@example.com"},
		{"GIT_COMMITTER_NAME", "Tester"}, {"GIT_COMMITTER_EMAIL", "tester@example.com"},
		{"GIT_CONFIG_NOSYSTEM", "1"}, {"HOME", t.TempDir()},
	} {
		t.Setenv(kv[0], kv[1])
	}
	t.Cleanup(func() { workDir = "." })

	dir, err := gitvcs.Init(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello\n"), 0644))

	out, err := execute(t, "-C", dir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, core.UnindexedChangeList)
	assert.Contains(t, out, "a.txt")

	out, err = execute(t, "-C", dir, "commit", "-m", "add greeting", "-t", "docs", "a.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Committed ")

	out, err = execute(t, "-C", dir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Working tree clean.")

	out, err = execute(t, "-C", dir, "log", "a.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "docs: add greeting")

	out, err = execute(t, "-C", dir, "root")
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out)
}
