package core

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Name identifies Git to the host framework.
const Name = "Git"

// GitDir is the marker directory of a git working tree.
const GitDir = ".git"

// Console receives user-facing messages.
type Console interface {
	Info(msg string)
	Error(msg string)
}

// LogConsole writes messages to a slog.Logger.
type LogConsole struct {
	Logger *slog.Logger
}

func (c LogConsole) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c LogConsole) Info(msg string)  { c.logger().Info(msg) }
func (c LogConsole) Error(msg string) { c.logger().Error(msg) }

// Vcs is the adapter handed to the host. It composes independently injected capabilities
// and owns the project's file-system listener.
type Vcs struct {
	project Project
	logger  *slog.Logger
	console Console

	changes    ChangeProvider
	checkin    CheckinEnvironment
	rollback   RollbackEnvironment
	update     UpdateEnvironment
	annotation AnnotationProvider
	diff       DiffProvider
	history    HistoryProvider
	selector   RevisionSelector
	config     Configurable

	confMu             sync.RWMutex
	addConfirmation    ConfirmationOption
	deleteConfirmation ConfirmationOption

	mu       sync.Mutex
	listener *ListenerGuard
}

// VcsOption configures a Vcs.
type VcsOption func(*Vcs)

func WithChangeProvider(p ChangeProvider) VcsOption { return func(v *Vcs) { v.changes = p } }
func WithCheckinEnvironment(e CheckinEnvironment) VcsOption { return func(v *Vcs) { v.checkin = e } }
func WithRollbackEnvironment(e RollbackEnvironment) VcsOption {
	return func(v *Vcs) { v.rollback = e }
}
func WithUpdateEnvironment(e UpdateEnvironment) VcsOption { return func(v *Vcs) { v.update = e } }
func WithAnnotationProvider(p AnnotationProvider) VcsOption {
	return func(v *Vcs) { v.annotation = p }
}
func WithDiffProvider(p DiffProvider) VcsOption { return func(v *Vcs) { v.diff = p } }
func WithHistoryProvider(p HistoryProvider) VcsOption { return func(v *Vcs) { v.history = p } }
func WithRevisionSelector(s RevisionSelector) VcsOption { return func(v *Vcs) { v.selector = s } }
func WithConfigurable(c Configurable) VcsOption { return func(v *Vcs) { v.config = c } }
func WithConsole(c Console) VcsOption { return func(v *Vcs) { v.console = c } }
func WithListenerFactory(f ListenerFactory) VcsOption {
	return func(v *Vcs) { v.listener = NewListenerGuard(f) }
}

// WithLogger sets the logger. The default console logs through it as well.
func WithLogger(l *slog.Logger) VcsOption { return func(v *Vcs) { v.logger = l } }

// WithConfirmer sets the callback answering "show" confirmations.
func WithConfirmer(c Confirmer) VcsOption {
	return func(v *Vcs) {
		v.addConfirmation.Confirmer = c
		v.deleteConfirmation.Confirmer = c
	}
}

// WithConfirmations sets the add and delete confirmation policies.
func WithConfirmations(add, del ConfirmationValue) VcsOption {
	return func(v *Vcs) {
		v.addConfirmation.Value = add
		v.deleteConfirmation.Value = del
	}
}

// NewVcs creates the adapter for a project.
func NewVcs(project Project, opts ...VcsOption) *Vcs {
	v := &Vcs{
		project:            project,
		addConfirmation:    ConfirmationOption{Action: "add", Value: ConfirmShow, Confirmer: DenyAll},
		deleteConfirmation: ConfirmationOption{Action: "remove", Value: ConfirmShow, Confirmer: DenyAll},
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	if v.console == nil {
		v.console = LogConsole{Logger: v.logger}
	}
	return v
}

// Name returns the VCS name.
func (v *Vcs) Name() string { return Name }

// DisplayName returns the name shown to users.
func (v *Vcs) DisplayName() string { return Name }

// Project returns the owning project.
func (v *Vcs) Project() Project { return v.project }

func (v *Vcs) ChangeProvider() ChangeProvider { return v.changes }
func (v *Vcs) CheckinEnvironment() CheckinEnvironment { return v.checkin }
func (v *Vcs) RollbackEnvironment() RollbackEnvironment { return v.rollback }
func (v *Vcs) UpdateEnvironment() UpdateEnvironment { return v.update }
func (v *Vcs) StatusEnvironment() UpdateEnvironment { return v.update }
func (v *Vcs) IntegrateEnvironment() UpdateEnvironment { return v.update }
func (v *Vcs) AnnotationProvider() AnnotationProvider { return v.annotation }
func (v *Vcs) DiffProvider() DiffProvider { return v.diff }
func (v *Vcs) HistoryProvider() HistoryProvider { return v.history }
func (v *Vcs) RevisionSelector() RevisionSelector { return v.selector }

// AddConfirmation returns the policy for scheduling created files.
func (v *Vcs) AddConfirmation() ConfirmationOption {
	v.confMu.RLock()
	defer v.confMu.RUnlock()
	return v.addConfirmation
}

// DeleteConfirmation returns the policy for removing deleted files.
func (v *Vcs) DeleteConfirmation() ConfirmationOption {
	v.confMu.RLock()
	defer v.confMu.RUnlock()
	return v.deleteConfirmation
}

// SetConfirmations replaces the add and delete policies, keeping their confirmers.
func (v *Vcs) SetConfirmations(add, del ConfirmationValue) {
	v.confMu.Lock()
	defer v.confMu.Unlock()
	v.addConfirmation.Value = add
	v.deleteConfirmation.Value = del
}

// Configurable returns the settings capability.
func (v *Vcs) Configurable() Configurable {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.config
}

// ParseRevisionNumber decodes a revision token. See ParseRevision.
func (v *Vcs) ParseRevisionNumber(token string) (*Revision, error) {
	return ParseRevision(token)
}

// IsVersionedDirectory reports whether dir is the root of a git working tree.
func (v *Vcs) IsVersionedDirectory(dir string) bool {
	return IsVersionedDirectory(dir)
}

// IsVersionedDirectory reports whether dir contains a .git directory.
// A .git file (worktree or submodule link) does not count.
func IsVersionedDirectory(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, GitDir))
	return err == nil && info.IsDir()
}

// Activate starts the project listener if it is not already running.
// It is a no-op when no listener factory is configured.
func (v *Vcs) Activate(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.listener == nil {
		return nil
	}
	if err := v.listener.Activate(ctx, v.project); err != nil {
		return err
	}
	v.logger.Debug("vcs activated", "project", v.project.Name, "root", v.project.Root)
	return nil
}

// Deactivate stops the project listener if one is running.
func (v *Vcs) Deactivate() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.listener == nil {
		return nil
	}
	err := v.listener.Deactivate()
	v.logger.Debug("vcs deactivated", "project", v.project.Name, "root", v.project.Root)
	return err
}

// ListenerState reports whether the listener is running.
func (v *Vcs) ListenerState() ListenerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listener == nil {
		return ListenerIdle
	}
	return v.listener.State()
}

// ActiveListener returns the running listener, or nil.
func (v *Vcs) ActiveListener() Listener {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listener == nil {
		return nil
	}
	if h := v.listener.Handle(); h != nil {
		return h.Listener()
	}
	return nil
}

// ShowErrors reports the errors of a failed action as one console message.
func (v *Vcs) ShowErrors(errs []error, action string) {
	errs = compactErrors(errs)
	if len(errs) == 0 {
		return
	}
	v.console.Error(FormatErrors(errs, action))
}

// ShowMessages writes an informational message. Empty messages are dropped.
func (v *Vcs) ShowMessages(msg string) {
	if msg == "" {
		return
	}
	v.console.Info(msg)
}

// FormatErrors builds the console report for errs.
func FormatErrors(errs []error, action string) string {
	var sb strings.Builder
	sb.WriteString("\nErrors occurred during ")
	sb.WriteString(action)
	sb.WriteString(":")
	for _, err := range errs {
		sb.WriteString("\n")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func compactErrors(errs []error) []error {
	out := errs[:0:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
