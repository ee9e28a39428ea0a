package core_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gitvcs/pkg/core"
)

type memConsole struct {
	infos  []string
	errors []string
}

func (c *memConsole) Info(msg string)  { c.infos = append(c.infos, msg) }
func (c *memConsole) Error(msg string) { c.errors = append(c.errors, msg) }

type stubHistory struct{}

func (stubHistory) History(ctx context.Context, path string, limit int) ([]core.FileRevision, error) {
	return nil, nil
}

func TestVcs_Identity(t *testing.T) {
	v := core.NewVcs(project)
	assert.Equal(t, "Git", v.Name())
	assert.Equal(t, "Git", v.DisplayName())
	assert.Equal(t, project, v.Project())
}

func TestVcs_CapabilitiesAreInjected(t *testing.T) {
	h := stubHistory{}
	v := core.NewVcs(project, core.WithHistoryProvider(h))

	assert.Equal(t, h, v.HistoryProvider())
	assert.Nil(t, v.DiffProvider())
	assert.Nil(t, v.CheckinEnvironment())

	st := v.State().(core.VcsState)
	assert.Equal(t, []string{"history"}, st.Capabilities)
	assert.Equal(t, "vcs", v.ComponentType())
}

func TestVcs_StatusAndIntegrateShareUpdate(t *testing.T) {
	v := core.NewVcs(project)
	assert.Nil(t, v.StatusEnvironment())
	assert.Nil(t, v.IntegrateEnvironment())
}

func TestIsVersionedDirectory(t *testing.T) {
	base := t.TempDir()

	repo := filepath.Join(base, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	worktree := filepath.Join(base, "worktree")
	require.NoError(t, os.MkdirAll(worktree, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: ../repo/.git"), 0644))

	plain := filepath.Join(base, "plain")
	require.NoError(t, os.MkdirAll(plain, 0755))

	v := core.NewVcs(project)
	assert.True(t, v.IsVersionedDirectory(repo))
	assert.False(t, v.IsVersionedDirectory(worktree), ".git file is not a marker directory")
	assert.False(t, v.IsVersionedDirectory(plain))
	assert.False(t, v.IsVersionedDirectory(filepath.Join(base, "missing")))
}

func TestVcs_ActivateDeactivate(t *testing.T) {
	rec := &recorder{}
	factory, created := rec.factory(nil)
	v := core.NewVcs(project, core.WithListenerFactory(factory))
	ctx := context.Background()

	require.NoError(t, v.Activate(ctx))
	require.NoError(t, v.Activate(ctx))
	assert.Equal(t, core.ListenerActive, v.ListenerState())
	assert.Same(t, (*created)[0], v.ActiveListener())

	st := v.State().(core.VcsState)
	assert.Equal(t, "active", st.Listener)
	assert.NotEmpty(t, st.ListenerID)

	require.NoError(t, v.Deactivate())
	require.NoError(t, v.Deactivate())
	assert.Equal(t, core.ListenerIdle, v.ListenerState())
	assert.Nil(t, v.ActiveListener())
	assert.Equal(t, []string{"create", "dispose"}, rec.log)
}

func TestVcs_ActivateWithoutListener(t *testing.T) {
	v := core.NewVcs(project)
	require.NoError(t, v.Activate(context.Background()))
	require.NoError(t, v.Deactivate())
	assert.Equal(t, core.ListenerIdle, v.ListenerState())
}

func TestVcs_ShowErrors(t *testing.T) {
	console := &memConsole{}
	v := core.NewVcs(project, core.WithConsole(console))

	v.ShowErrors(nil, "commit")
	v.ShowErrors([]error{nil}, "commit")
	assert.Empty(t, console.errors)

	v.ShowErrors([]error{errors.New("first"), nil, errors.New("second")}, "commit")
	require.Len(t, console.errors, 1)
	assert.Equal(t, "\nErrors occurred during commit:\nfirst\nsecond", console.errors[0])
}

func TestVcs_ShowMessages(t *testing.T) {
	console := &memConsole{}
	v := core.NewVcs(project, core.WithConsole(console))

	v.ShowMessages("")
	v.ShowMessages("Pulled 3 files")
	assert.Equal(t, []string{"Pulled 3 files"}, console.infos)
}

func TestVcs_ParseRevisionNumber(t *testing.T) {
	v := core.NewVcs(project)
	rev, err := v.ParseRevisionNumber("deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", rev.Hash)

	_, err = v.ParseRevisionNumber(strings.Repeat("x", 50))
	assert.ErrorIs(t, err, core.ErrMalformedRevision)
}

func TestConfirmationOption_Filter(t *testing.T) {
	paths := []string{"a.txt", "b.txt"}

	silent := core.ConfirmationOption{Action: "add", Value: core.ConfirmSilently}
	assert.Equal(t, paths, silent.Filter(paths))

	nothing := core.ConfirmationOption{Action: "add", Value: core.ConfirmNothing}
	assert.Nil(t, nothing.Filter(paths))

	var asked []string
	show := core.ConfirmationOption{Action: "add", Value: core.ConfirmShow, Confirmer: func(action string, p []string) []string {
		asked = append(asked, action)
		return p[:1]
	}}
	assert.Equal(t, []string{"a.txt"}, show.Filter(paths))
	assert.Equal(t, []string{"add"}, asked)
	assert.Nil(t, show.Filter(nil), "empty batches never prompt")
	assert.Len(t, asked, 1)

	noConfirmer := core.ConfirmationOption{Value: core.ConfirmShow}
	assert.Nil(t, noConfirmer.Filter(paths))
}

func TestVcs_Confirmations(t *testing.T) {
	v := core.NewVcs(project, core.WithConfirmations(core.ConfirmSilently, core.ConfirmNothing))
	assert.Equal(t, core.ConfirmSilently, v.AddConfirmation().Value)
	assert.Equal(t, core.ConfirmNothing, v.DeleteConfirmation().Value)
	assert.Equal(t, "add", v.AddConfirmation().Action)
	assert.Equal(t, "remove", v.DeleteConfirmation().Action)
}

func TestVcs_SetConfirmations(t *testing.T) {
	accept := func(_ string, paths []string) []string { return paths }
	v := core.NewVcs(project, core.WithConfirmer(accept))

	v.SetConfirmations(core.ConfirmNothing, core.ConfirmSilently)
	assert.Equal(t, core.ConfirmNothing, v.AddConfirmation().Value)
	assert.Equal(t, core.ConfirmSilently, v.DeleteConfirmation().Value)
	assert.Equal(t, []string{"x"}, v.AddConfirmation().Confirmer("add", []string{"x"}), "confirmer survives")

	state := v.State().(core.VcsState)
	assert.Equal(t, core.ConfirmNothing, state.AddConfirmation)
	assert.Equal(t, core.ConfirmSilently, state.DeleteConfirmation)
}

func TestParseConfirmationValue(t *testing.T) {
	v, err := core.ParseConfirmationValue(" Silently ")
	require.NoError(t, err)
	assert.Equal(t, core.ConfirmSilently, v)

	v, err = core.ParseConfirmationValue("")
	require.NoError(t, err)
	assert.Equal(t, core.ConfirmShow, v)

	_, err = core.ParseConfirmationValue("sometimes")
	assert.ErrorIs(t, err, core.ErrInvalidSettings)
}

func TestSettings_Validate(t *testing.T) {
	s := core.DefaultSettings()
	require.NoError(t, s.Validate())

	bad := s
	bad.UpdateStrategy = "squash"
	assert.ErrorIs(t, bad.Validate(), core.ErrInvalidSettings)

	bad = s
	bad.Ignore = []string{"[unclosed"}
	assert.ErrorIs(t, bad.Validate(), core.ErrInvalidSettings)

	bad = s
	bad.DeleteConfirmation = "later"
	assert.ErrorIs(t, bad.Validate(), core.ErrInvalidSettings)

	normalized := core.Settings{StashOnUpdate: true}.Normalize()
	assert.Equal(t, "git", normalized.GitExecutable)
	assert.True(t, normalized.StashOnUpdate)
	assert.True(t, normalized.Equal(normalized))
	assert.False(t, normalized.Equal(s))
}
