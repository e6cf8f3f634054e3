package authoring

import (
	"errors"
	"fmt"

	course "lms/models/course"
)

var (
	// ErrSaveInFlight is returned when a submit overlaps an unfinished save
	ErrSaveInFlight = errors.New("a save is already in progress")

	// ErrValidationFailed is returned when a submit is blocked by issues
	ErrValidationFailed = errors.New("course validation failed")

	// ErrConfirmationRequired is returned by the transition gate when an
	// edge (or a warning-bearing draft) needs an explicit user yes
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrConfirmationDeclined is returned when the user cancels a
	// warning or unpublish confirmation. Nothing was sent to the API.
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// ErrAuthExpired means the session is no longer valid and the user
	// must sign in again before retrying the save
	ErrAuthExpired = errors.New("authentication expired, please sign in again")

	// ErrUnavailable marks retryable network/server failures. The draft
	// is kept in memory so no authoring work is lost.
	ErrUnavailable = errors.New("course service unavailable")
)

// TransitionError reports a denied status change together with every
// blocking issue, so the caller can surface all of them at once.
type TransitionError struct {
	From   course.Status
	To     course.Status
	Reason string
	Issues []Issue
}

func (e *TransitionError) Error() string {
	if len(e.Issues) > 0 {
		return fmt.Sprintf("cannot move course from %s to %s: %d validation error(s)", e.From, e.To, len(e.Issues))
	}
	return fmt.Sprintf("cannot move course from %s to %s: %s", e.From, e.To, e.Reason)
}

// SyncError reports a diff-and-sync run that stopped partway. Applied
// commands have already taken effect server-side; re-submitting the same
// draft re-diffs against the updated snapshot and retries only what failed.
type SyncError struct {
	Applied   []Command
	Failed    Command
	Remaining []Command
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync stopped at %s (%d applied, %d not attempted): %v",
		e.Failed, len(e.Applied), len(e.Remaining), e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
