package platform

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/gitvcs/pkg/adapters/fs"
	"github.com/aretw0/gitvcs/pkg/adapters/gitcmd"
	"github.com/aretw0/gitvcs/pkg/core"
)

// New builds the Git adapter for the repository containing path.
//
//	vcs, err := gitvcs.New(".", gitvcs.WithLogger(logger))
func New(path string, opts ...Option) (*core.Vcs, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	root, err := FindRoot(path)
	if err != nil {
		if !o.autoInit {
			return nil, err
		}
		if root, err = Init(path, opts...); err != nil {
			return nil, err
		}
	}

	store := gitcmd.NewSettingsStore(root)
	settings, err := resolveSettings(store, o)
	if err != nil {
		return nil, err
	}

	repo := gitcmd.NewRepository(gitcmd.Config{
		Root:     root,
		Settings: settings,
		Logger:   o.logger,
		Env:      o.env,
	})
	checkin := gitcmd.NewCheckin(repo)
	configurable := gitcmd.NewConfigurable(store, settings)

	confirmer := o.confirmer
	if confirmer == nil {
		confirmer = core.DenyAll
	}

	vcsOpts := []core.VcsOption{
		core.WithLogger(o.logger),
		core.WithChangeProvider(gitcmd.NewChanges(repo)),
		core.WithCheckinEnvironment(checkin),
		core.WithRollbackEnvironment(gitcmd.NewRollback(repo)),
		core.WithUpdateEnvironment(gitcmd.NewUpdate(repo)),
		core.WithAnnotationProvider(gitcmd.NewAnnotator(repo)),
		core.WithDiffProvider(gitcmd.NewDiffer(repo)),
		core.WithHistoryProvider(gitcmd.NewHistory(repo)),
		core.WithRevisionSelector(gitcmd.NewSelector(repo)),
		core.WithConfigurable(configurable),
		core.WithConfirmations(settings.AddConfirmation, settings.DeleteConfirmation),
		core.WithConfirmer(confirmer),
	}
	if o.console != nil {
		vcsOpts = append(vcsOpts, core.WithConsole(o.console))
	}

	if o.listener {
		vcsOpts = append(vcsOpts, core.WithListenerFactory(fs.NewFactory(fs.Config{
			Git:                repo.Client(),
			Checkin:            checkin,
			AddConfirmation:    core.ConfirmationOption{Action: "add", Confirmer: confirmer},
			DeleteConfirmation: core.ConfirmationOption{Action: "remove", Confirmer: confirmer},
			Settings:           configurable.Settings,
			EventBuffer:        o.eventBuffer,
			Logger:             o.logger,
			ErrorHandler:       o.errorHandler,
		})))
	}

	project := core.Project{Name: filepath.Base(root), Root: root}
	vcs := core.NewVcs(project, vcsOpts...)

	// Applied settings reach the running repository and confirmation policies at once.
	// The listener reads them through configurable.Settings.
	configurable.OnApply(repo.SetSettings)
	configurable.OnApply(func(s core.Settings) {
		vcs.SetConfirmations(s.AddConfirmation, s.DeleteConfirmation)
	})
	return vcs, nil
}

func resolveSettings(store *gitcmd.SettingsStore, o *options) (core.Settings, error) {
	if o.settings != nil {
		s := o.settings.Normalize()
		if err := s.Validate(); err != nil {
			return core.Settings{}, err
		}
		return s, nil
	}
	s, err := store.Load()
	if err != nil {
		return core.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}
