package core

import "errors"

// Common errors.
var (
	// ErrMalformedRevision indicates a long-form revision token that does not follow the
	// "<date>[<hash>" grammar.
	ErrMalformedRevision = errors.New("malformed revision token")

	// ErrNotRepository indicates the directory is not a git working tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNothingToCommit indicates a checkin with no staged changes.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrUnsupported indicates the capability was not wired into the Vcs.
	ErrUnsupported = errors.New("capability not supported")

	// ErrInvalidSettings indicates settings failed validation.
	ErrInvalidSettings = errors.New("invalid settings")
)
