// Package gitvcs plugs Git into a host version-control framework.
//
// The host (an editor, an IDE or a tooling daemon) talks to a single adapter, core.Vcs,
// which composes independent capabilities:
//
//   - change provider, checkin, rollback and update environments
//   - annotation, diff and history providers
//   - revision selection and a settings page
//
// Each capability is a small interface in pkg/core with a git command line
// implementation in pkg/adapters/gitcmd. Activating the adapter starts a file-system
// listener (pkg/adapters/fs) that stages new files and records deletions according to
// the add/delete confirmation settings; deactivating it disposes the listener.
//
// Usage:
//
//	vcs, err := gitvcs.New(".", gitvcs.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := vcs.Activate(ctx); err != nil {
//		return err
//	}
//	defer vcs.Deactivate()
//
//	rev, err := gitvcs.ParseRevision("2024-01-01T00:00:00Z[" + hash)
package gitvcs
