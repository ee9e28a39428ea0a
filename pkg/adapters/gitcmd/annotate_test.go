package gitcmd

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gitvcs/pkg/core"
)

const blameSample = `abcdef0123456789abcdef0123456789abcdef01 1 1 2
author Alice
author-mail <alice@example.com>
author-time 1704067200
author-tz +0000
committer Alice
committer-mail <alice@example.com>
committer-time 1704067200
committer-tz +0000
summary initial import
filename a.txt
	first line
abcdef0123456789abcdef0123456789abcdef01 2 2
	
1111111111111111111111111111111111111111 3 3 1
author Bob
author-time 1704153600
committer-time 1704153600
summary second
previous abcdef0123456789abcdef0123456789abcdef01 a.txt
filename a.txt
	third line
`

func TestParseBlame(t *testing.T) {
	ann := parseBlame("a.txt", blameSample)
	require.Len(t, ann.Lines, 3)

	assert.Equal(t, 1, ann.Lines[0].LineNo)
	assert.Equal(t, "Alice", ann.Lines[0].Author)
	assert.Equal(t, "initial import", ann.Lines[0].Summary)
	assert.Equal(t, "first line", ann.Lines[0].Content)
	assert.Equal(t, int64(1704067200), ann.Lines[0].Revision.Timestamp.Unix())

	assert.Equal(t, "", ann.Lines[1].Content, "blank lines keep their slot")
	assert.Equal(t, "Alice", ann.Lines[1].Author)

	assert.Equal(t, 3, ann.Lines[2].LineNo)
	assert.Equal(t, "Bob", ann.Lines[2].Author)
	assert.Equal(t, strings.Repeat("1", 40), ann.Lines[2].Revision.Hash)
}

func TestAnnotate(t *testing.T) {
	repo := setupRepo(t, core.DefaultSettings())
	ctx := context.Background()
	first := commitFile(t, repo, "a.txt", "one\ntwo\n", "first")
	second := commitFile(t, repo, "a.txt", "one\ntwo\nthree\n", "second")

	ann, err := NewAnnotator(repo).Annotate(ctx, "a.txt", nil)
	require.NoError(t, err)
	require.Len(t, ann.Lines, 3)
	assert.Equal(t, second.Hash, ann.Revision.Hash)
	assert.Equal(t, first.Hash, ann.Lines[0].Revision.Hash)
	assert.Equal(t, second.Hash, ann.Lines[2].Revision.Hash)
	assert.Equal(t, "Tester", ann.Lines[2].Author)
	assert.Equal(t, "three", ann.Lines[2].Content)

	old, err := NewAnnotator(repo).Annotate(ctx, "a.txt", first)
	require.NoError(t, err)
	assert.Len(t, old.Lines, 2)
	assert.Same(t, first, old.Revision)
}
