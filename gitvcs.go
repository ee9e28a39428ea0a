package gitvcs

import (
	"log/slog"

	"github.com/aretw0/gitvcs/internal/platform"
	"github.com/aretw0/gitvcs/pkg/adapters/gitcmd"
	"github.com/aretw0/gitvcs/pkg/core"
)

// --- Types ---

// Vcs is the adapter handed to the host framework.
type Vcs = core.Vcs

// Revision identifies a commit, optionally with its timestamp.
type Revision = core.Revision

// Settings is the user-editable configuration.
type Settings = core.Settings

// Name identifies Git to the host.
const Name = core.Name

// --- Configuration ---

// Option defines a functional option for configuring the adapter.
type Option = platform.Option

// WithLogger sets the logger for the adapter and its git client.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSettings overrides the settings file.
func WithSettings(s Settings) Option {
	return platform.WithSettings(s)
}

// WithConfirmer sets the callback answering "show" add/delete confirmations.
func WithConfirmer(c core.Confirmer) Option {
	return platform.WithConfirmer(c)
}

// WithConsole sets where error and message reports are written.
func WithConsole(c core.Console) Option {
	return platform.WithConsole(c)
}

// WithEnv adds environment variables to every git invocation.
func WithEnv(env ...string) Option {
	return platform.WithEnv(env...)
}

// WithAutoInit runs `git init` when the path is not a repository.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithListener enables or disables the working tree listener.
func WithListener(enabled bool) Option {
	return platform.WithListener(enabled)
}

// WithEventBuffer sets the size of the listener event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for listener runtime errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New builds the Git adapter for the repository containing path.
func New(path string, opts ...Option) (*Vcs, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly and returns its root.
func Init(path string, opts ...Option) (string, error) {
	return platform.Init(path, opts...)
}

// FindRoot looks upwards for the repository root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Revisions ---

// ParseRevision decodes a revision token. Empty tokens yield nil.
func ParseRevision(token string) (*Revision, error) {
	return core.ParseRevision(token)
}

// IsVersionedDirectory reports whether dir is a git working tree root.
func IsVersionedDirectory(dir string) bool {
	return core.IsVersionedDirectory(dir)
}

// --- Semantic Commits ---

const (
	CommitTypeFeat     = gitcmd.CommitTypeFeat
	CommitTypeFix      = gitcmd.CommitTypeFix
	CommitTypeDocs     = gitcmd.CommitTypeDocs
	CommitTypeStyle    = gitcmd.CommitTypeStyle
	CommitTypeRefactor = gitcmd.CommitTypeRefactor
	CommitTypePerf     = gitcmd.CommitTypePerf
	CommitTypeTest     = gitcmd.CommitTypeTest
	CommitTypeChore    = gitcmd.CommitTypeChore
)

// FormatCommitMessage builds a Conventional Commit message.
func FormatCommitMessage(ctype, scope, subject, body string) string {
	return gitcmd.FormatCommitMessage(ctype, scope, subject, body)
}
