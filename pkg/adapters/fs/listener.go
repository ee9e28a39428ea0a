// Package fs watches a working tree and keeps the git index in step with file creation and deletion.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/gitvcs/pkg/core"
	"github.com/aretw0/gitvcs/pkg/git"
)

// Config holds the configuration for a working tree listener.
type Config struct {
	Root               string
	Git                *git.Client
	Checkin            core.CheckinEnvironment
	AddConfirmation    core.ConfirmationOption
	DeleteConfirmation core.ConfirmationOption
	Ignore             []string // doublestar patterns, relative to Root
	Debounce           time.Duration
	EventBuffer        int
	StopTimeout        time.Duration
	Logger             *slog.Logger
	ErrorHandler       func(error)

	// Settings, when set, supplies the live settings. Confirmation values are read
	// on every flush; ignore patterns and debounce when the listener is created.
	Settings func() core.Settings
}

// ErrStopTimeout is returned by Dispose when the event loop does not stop in time,
// e.g. while a confirmer is waiting for an answer.
var ErrStopTimeout = errors.New("listener did not stop in time")

// Listener reacts to files appearing and disappearing in a working tree.
// It is created by a core.ListenerGuard and stopped with Dispose.
type Listener struct {
	config  Config
	watcher *fsnotify.Watcher
	events  chan core.Event
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once

	mu        sync.RWMutex
	watched   int
	scheduled int
	declined  int
	gitLocked bool
	lastFlush *time.Time
}

// NewFactory returns a core.ListenerFactory building listeners from config.
// The project root overrides config.Root.
func NewFactory(config Config) core.ListenerFactory {
	return func(ctx context.Context, project core.Project) (core.Listener, error) {
		cfg := config
		cfg.Root = project.Root
		return NewListener(ctx, cfg)
	}
}

// NewListener registers a recursive watch on config.Root and starts the event loop.
// The loop runs until Dispose; cancelling ctx does not stop it.
func NewListener(ctx context.Context, config Config) (*Listener, error) {
	if config.Git == nil || config.Checkin == nil {
		return nil, errors.New("listener requires a git client and a checkin environment")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Settings != nil {
		s := config.Settings()
		config.Ignore = s.Ignore
		config.Debounce = s.Debounce
	}
	if config.StopTimeout <= 0 {
		config.StopTimeout = 5 * time.Second
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 100
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	l := &Listener{
		config:  config,
		watcher: watcher,
		events:  make(chan core.Event, config.EventBuffer),
		done:    make(chan struct{}),
	}

	if err := l.addTree(config.Root, nil); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	gitDir := filepath.Join(config.Root, core.GitDir)
	if err := watcher.Add(gitDir); err != nil {
		l.reportError(fmt.Errorf("failed to watch %s, index lock detection disabled: %w", gitDir, err))
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l.cancel = cancel

	lifecycle.Go(runCtx, l.run, lifecycle.WithErrorHandler(func(err error) {
		l.reportError(fmt.Errorf("listener stopped: %w", err))
	}))

	return l, nil
}

// Events returns the stream of observed changes. It is closed after Dispose.
// Events are dropped when the buffer is full.
func (l *Listener) Events() <-chan core.Event {
	return l.events
}

// Dispose stops the event loop and unregisters the watch, waiting at most
// StopTimeout. Later calls are no-ops.
func (l *Listener) Dispose() error {
	var err error
	l.once.Do(func() {
		l.cancel()
		select {
		case <-l.done:
		case <-time.After(l.config.StopTimeout):
			err = fmt.Errorf("%w after %s", ErrStopTimeout, l.config.StopTimeout)
		}
	})
	return err
}

// policies returns the confirmation options in effect.
func (l *Listener) policies() (add, del core.ConfirmationOption) {
	add, del = l.config.AddConfirmation, l.config.DeleteConfirmation
	if l.config.Settings != nil {
		s := l.config.Settings()
		add.Value, del.Value = s.AddConfirmation, s.DeleteConfirmation
	}
	return add, del
}

// addTree watches dir and its subdirectories, skipping .git and ignored paths.
// Files found are passed to onFile.
func (l *Listener) addTree(dir string, onFile func(path string)) error {
	return filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if path != l.config.Root && l.ignored(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if onFile != nil {
				onFile(path)
			}
			return nil
		}
		if err := l.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		l.mu.Lock()
		l.watched++
		l.mu.Unlock()
		return nil
	})
}

// rel returns the slash-separated path relative to the root, or "" if outside.
func (l *Listener) rel(path string) string {
	rel, err := filepath.Rel(l.config.Root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}

// ignored reports whether path is inside .git or matches an ignore pattern.
func (l *Listener) ignored(path string) bool {
	rel := l.rel(path)
	if rel == "" {
		return true
	}
	if rel == core.GitDir || strings.HasPrefix(rel, core.GitDir+"/") {
		return true
	}
	for _, pattern := range l.config.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// isIndexLock reports whether the event concerns .git/index.lock.
func (l *Listener) isIndexLock(name string) bool {
	return filepath.Base(name) == "index.lock" && filepath.Base(filepath.Dir(name)) == core.GitDir
}

// run is the main event loop. Creates and deletes are batched until the tree is quiet
// for the debounce interval and git is not holding the index lock.
func (l *Listener) run(ctx context.Context) (err error) {
	defer close(l.done)
	defer close(l.events)
	defer l.watcher.Close()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("listener panic: %v", recovered)
			if l.config.Logger.Enabled(ctx, slog.LevelDebug) {
				l.config.Logger.Error("listener panic", "error", err, "stack", string(debug.Stack()))
			} else {
				l.config.Logger.Error("listener panic", "error", err)
			}
		}
	}()

	pending := make(map[string]core.EventType)
	timer := time.NewTimer(l.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	arm := func() {
		timer.Stop()
		timer.Reset(l.config.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-l.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if l.isIndexLock(event.Name) {
				l.handleIndexLock(event)
				if len(pending) > 0 {
					arm()
				}
				continue
			}
			if l.collect(event, pending) {
				arm()
			}

		case <-timer.C:
			if l.locked() {
				arm()
				continue
			}
			l.flush(ctx, pending)
			pending = make(map[string]core.EventType)

		case wErr, ok := <-l.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			l.reportError(wErr)
		}
	}
}

func (l *Listener) handleIndexLock(event fsnotify.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if event.Has(fsnotify.Create) {
		l.gitLocked = true
		l.config.Logger.Debug("git operation detected, pausing listener")
	} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		l.gitLocked = false
		l.config.Logger.Debug("git operation finished, resuming listener")
	}
}

func (l *Listener) locked() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.gitLocked
}

// collect records an event in pending and reports whether a flush is needed.
// Modifications are forwarded immediately; they never touch the index.
func (l *Listener) collect(event fsnotify.Event, pending map[string]core.EventType) bool {
	if l.ignored(event.Name) {
		return false
	}
	rel := l.rel(event.Name)

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Lstat(event.Name)
		if err != nil {
			return false
		}
		if info.IsDir() {
			// Files may land in a new directory before the watch is registered.
			if err := l.addTree(event.Name, func(path string) {
				pending[l.rel(path)] = core.EventCreate
			}); err != nil {
				l.reportError(err)
			}
			return true
		}
		pending[rel] = core.EventCreate
		return true

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if prev, ok := pending[rel]; ok && prev == core.EventCreate {
			// Created and removed within one batch.
			delete(pending, rel)
			return true
		}
		pending[rel] = core.EventDelete
		return true

	case event.Has(fsnotify.Write):
		if _, ok := pending[rel]; !ok {
			l.emit(core.Event{Type: core.EventModify, Path: rel, Timestamp: time.Now().Unix()})
		}
	}
	return false
}

// flush applies the confirmation policies to a batch and updates the index.
func (l *Listener) flush(ctx context.Context, pending map[string]core.EventType) {
	if len(pending) == 0 {
		return
	}

	var created, deleted []string
	for path, t := range pending {
		if t == core.EventCreate {
			created = append(created, path)
		} else {
			deleted = append(deleted, path)
		}
	}
	sort.Strings(created)
	sort.Strings(deleted)

	add, del := l.policies()
	l.apply(ctx, core.EventCreate, l.untracked(ctx, created), add, l.config.Checkin.ScheduleForAddition)
	l.apply(ctx, core.EventDelete, l.tracked(ctx, deleted), del, l.config.Checkin.ScheduleForDeletion)

	now := time.Now()
	l.mu.Lock()
	l.lastFlush = &now
	l.mu.Unlock()
}

func (l *Listener) apply(ctx context.Context, t core.EventType, paths []string, opt core.ConfirmationOption, schedule func(context.Context, []string) error) {
	if len(paths) == 0 {
		return
	}

	accepted := opt.Filter(paths)
	action := core.ActionScheduled
	if len(accepted) > 0 {
		if err := schedule(ctx, accepted); err != nil {
			l.reportError(fmt.Errorf("failed to %s %d files: %w", opt.Action, len(accepted), err))
			action = core.ActionFailed
		}
	}

	isAccepted := make(map[string]bool, len(accepted))
	for _, p := range accepted {
		isAccepted[p] = true
	}

	now := time.Now().Unix()
	for _, p := range paths {
		a := core.ActionDeclined
		if isAccepted[p] {
			a = action
		}
		l.mu.Lock()
		if a == core.ActionScheduled {
			l.scheduled++
		} else if a == core.ActionDeclined {
			l.declined++
		}
		l.mu.Unlock()
		l.emit(core.Event{Type: t, Path: p, Action: a, Timestamp: now})
	}
}

// untracked keeps the paths that exist, are not in the index and are not gitignored.
func (l *Listener) untracked(ctx context.Context, paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Lstat(filepath.Join(l.config.Root, filepath.FromSlash(p))); err != nil {
			continue
		}
		tracked, err := l.config.Git.IsTracked(ctx, p)
		if err != nil {
			l.reportError(err)
			continue
		}
		if !tracked && !l.config.Git.IsIgnored(ctx, p) {
			out = append(out, p)
		}
	}
	return out
}

// tracked keeps the paths that are gone from disk but still in the index.
func (l *Listener) tracked(ctx context.Context, paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Lstat(filepath.Join(l.config.Root, filepath.FromSlash(p))); err == nil {
			continue
		}
		tracked, err := l.config.Git.IsTracked(ctx, p)
		if err != nil {
			l.reportError(err)
			continue
		}
		if tracked {
			out = append(out, p)
		}
	}
	return out
}

func (l *Listener) emit(e core.Event) {
	select {
	case l.events <- e:
	default:
		l.config.Logger.Debug("listener event dropped", "event", e.String())
	}
}

func (l *Listener) reportError(err error) {
	l.config.Logger.Error("listener error", "error", err)
	if l.config.ErrorHandler != nil {
		l.config.ErrorHandler(err)
	}
}
