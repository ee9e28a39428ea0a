package platform

import (
	"log/slog"

	"github.com/aretw0/gitvcs/pkg/core"
)

// options holds the internal configuration for building a Vcs.
type options struct {
	logger       *slog.Logger
	settings     *core.Settings
	confirmer    core.Confirmer
	console      core.Console
	env          []string
	autoInit     bool
	listener     bool
	eventBuffer  int
	errorHandler func(error)
}

// Option defines a functional option for configuring the adapter.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		listener: true,
	}
}

// WithLogger sets the logger for the adapter and its git client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSettings overrides the settings file.
func WithSettings(s core.Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}

// WithConfirmer sets the callback answering "show" confirmations.
// Without it, "show" confirmations are declined.
func WithConfirmer(c core.Confirmer) Option {
	return func(o *options) {
		o.confirmer = c
	}
}

// WithConsole sets where ShowErrors and ShowMessages write.
func WithConsole(c core.Console) Option {
	return func(o *options) {
		o.console = c
	}
}

// WithEnv adds environment variables to every git invocation.
func WithEnv(env ...string) Option {
	return func(o *options) {
		o.env = append(o.env, env...)
	}
}

// WithAutoInit runs `git init` when the path is not yet a repository.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithListener enables or disables the working tree listener started by Activate.
// By default, the listener is enabled.
func WithListener(enabled bool) Option {
	return func(o *options) {
		o.listener = enabled
	}
}

// WithEventBuffer sets the size of the listener event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the listener loop
// (e.g. permission denied, failed git add) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
