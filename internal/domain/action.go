package domain

import "context"

// Action represents a single transaction step: a forward operation paired
// with the compensating action that undoes exactly its effect.
//
// Action is defined in the domain layer so that the primitives and the
// orchestrator can build steps without depending on the coordinator.
type Action interface {
	// Execute performs the forward operation.
	Execute(ctx context.Context) error

	// Rollback reverses the effect of a previously successful Execute call.
	// Rollback is only called if Execute returned nil.
	Rollback(ctx context.Context) error

	// Description returns a human-readable description of the action for
	// logging purposes (e.g., "copy template to /work/demo").
	Description() string
}

// Committer is implemented by actions that hold ephemeral artifacts (such as
// backups) which must be released once the whole transaction has committed.
type Committer interface {
	Commit(ctx context.Context) error
}

// TemporaryPathReporter is implemented by actions that can report staging
// or backup paths they left on disk, for diagnostics after a failure.
type TemporaryPathReporter interface {
	TemporaryPaths() []string
}
