package core

import (
	"context"
	"time"
)

// FileStatus is the working tree state of a path.
type FileStatus string

const (
	StatusAdded       FileStatus = "ADDED"
	StatusModified    FileStatus = "MODIFIED"
	StatusDeleted     FileStatus = "DELETED"
	StatusRenamed     FileStatus = "RENAMED"
	StatusCopied      FileStatus = "COPIED"
	StatusTypeChanged FileStatus = "TYPE_CHANGED"
	StatusUnmerged    FileStatus = "UNMERGED"
	StatusUntracked   FileStatus = "UNTRACKED"
)

// Change describes a single modified path. OldPath is set for renames and copies.
type Change struct {
	Path    string
	OldPath string
	Status  FileStatus
	Staged  bool
}

// ChangeList groups changes under a name shown by the host.
type ChangeList struct {
	Name    string
	Changes []Change
}

// UnindexedChangeList is the change list holding untracked files.
const UnindexedChangeList = "Unindexed Files"

// DefaultChangeList holds tracked changes.
const DefaultChangeList = "Default"

// ChangeProvider reports local modifications.
type ChangeProvider interface {
	Changes(ctx context.Context) ([]ChangeList, error)
}

// CheckinEnvironment records changes in the repository.
type CheckinEnvironment interface {
	// Checkin commits the given paths (all staged changes if empty) and returns the new revision.
	Checkin(ctx context.Context, paths []string, message string) (*Revision, error)
	// ScheduleForAddition puts untracked paths under version control.
	ScheduleForAddition(ctx context.Context, paths []string) error
	// ScheduleForDeletion records the removal of paths that are gone from the working tree.
	ScheduleForDeletion(ctx context.Context, paths []string) error
}

// RollbackEnvironment reverts local changes.
type RollbackEnvironment interface {
	Rollback(ctx context.Context, changes []Change) error
	RollbackMissingDeletion(ctx context.Context, paths []string) error
}

// UpdateResult summarizes an update run.
type UpdateResult struct {
	Before *Revision
	After  *Revision
	Files  []string
	Ahead  int
	Behind int
}

// UpToDate reports whether the update changed nothing.
func (u *UpdateResult) UpToDate() bool {
	return u.Before.Equal(u.After) && len(u.Files) == 0
}

// UpdateEnvironment syncs the working tree with its upstream.
// The same environment serves update, status and integrate requests.
type UpdateEnvironment interface {
	Update(ctx context.Context) (*UpdateResult, error)
	Status(ctx context.Context) (*UpdateResult, error)
}

// AnnotationLine is one line of an annotated file.
type AnnotationLine struct {
	LineNo   int
	Revision *Revision
	Author   string
	Summary  string
	Content  string
}

// Annotation is the per-line origin of a file.
type Annotation struct {
	Path     string
	Revision *Revision
	Lines    []AnnotationLine
}

// AnnotationProvider attributes each line of a file to the revision that last changed it.
type AnnotationProvider interface {
	// Annotate annotates path at rev, or at HEAD when rev is nil.
	Annotate(ctx context.Context, path string, rev *Revision) (*Annotation, error)
}

// DiffProvider retrieves file revisions and content for comparison.
type DiffProvider interface {
	CurrentRevision(ctx context.Context, path string) (*Revision, error)
	LastRevision(ctx context.Context, path string) (*Revision, error)
	Content(ctx context.Context, path string, rev *Revision) ([]byte, error)
	// Diff returns a unified diff of path between from and to. A nil to means the working tree.
	Diff(ctx context.Context, path string, from, to *Revision) (string, error)
}

// FileRevision is an entry of a file's history.
type FileRevision struct {
	Revision *Revision
	Path     string
	Author   string
	Date     time.Time
	Message  string
}

// HistoryProvider lists the revisions that touched a file, newest first.
type HistoryProvider interface {
	History(ctx context.Context, path string, limit int) ([]FileRevision, error)
}

// RevisionSelector resolves a user-supplied reference (branch, tag, hash, HEAD~n) to a revision.
type RevisionSelector interface {
	SelectRevision(ctx context.Context, path, ref string) (*Revision, error)
}

// Configurable exposes the settings of the adapter for editing.
// Edits are staged until Apply persists them or Reset discards them.
type Configurable interface {
	DisplayName() string
	Settings() Settings
	Edit(s Settings) error
	IsModified() bool
	Apply() error
	Reset()
}
