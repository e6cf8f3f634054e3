package authoring

import course "lms/models/course"

// transition describes one allowed edge in the course lifecycle
type transition struct {
	needsValidation   bool // run the full publish validator first
	needsConfirmation bool // always ask the user, even with a clean draft
}

// transitionTable is the single source of truth for the course lifecycle:
//
//	DRAFT -> PENDING_APPROVAL -> ACTIVE <-> INACTIVE
//	DRAFT -> ACTIVE (direct publish)
//	any   -> ARCHIVED (terminal)
//
// Adding a state is a table edit, not a new scattered conditional.
var transitionTable = map[course.Status]map[course.Status]transition{
	course.StatusDraft: {
		course.StatusPendingApproval: {needsValidation: true},
		course.StatusActive:          {needsValidation: true},
		course.StatusArchived:        {needsConfirmation: true},
	},
	course.StatusPendingApproval: {
		course.StatusActive:   {needsValidation: true},
		course.StatusDraft:    {}, // withdraw the approval request
		course.StatusArchived: {needsConfirmation: true},
	},
	course.StatusActive: {
		course.StatusInactive: {needsConfirmation: true}, // unpublish keeps enrollments
		course.StatusArchived: {needsConfirmation: true},
	},
	course.StatusInactive: {
		course.StatusActive:   {needsValidation: true}, // republish re-runs the validator
		course.StatusArchived: {needsConfirmation: true},
	},
	course.StatusArchived: {}, // terminal
}

// CanTransition reports whether the lifecycle allows from -> to at all
func CanTransition(from, to course.Status) bool {
	_, ok := transitionTable[from][to]
	return ok
}

// AllowedTransitions returns the reachable statuses from a given state
func AllowedTransitions(from course.Status) []course.Status {
	out := make([]course.Status, 0, len(transitionTable[from]))
	for to := range transitionTable[from] {
		out = append(out, to)
	}
	return out
}

// RequestTransition is the status transition gate. It checks the table,
// runs the publish validator where the edge demands it, and enforces
// confirmation for warnings and for destructive edges.
//
// A denial is all-or-nothing: the returned TransitionError carries the
// complete issue list and the caller must not persist anything.
// ErrConfirmationRequired means the same call succeeds once the user
// confirms.
func RequestTransition(d *CourseDraft, target course.Status, confirmed bool) (Result, error) {
	from := d.Status
	if from == target {
		return Result{}, nil
	}

	edge, ok := transitionTable[from][target]
	if !ok {
		return Result{}, &TransitionError{From: from, To: target, Reason: "transition not allowed"}
	}

	var res Result
	if edge.needsValidation {
		res = Validate(d, target)
		if res.HasErrors() {
			return res, &TransitionError{From: from, To: target, Issues: res.Errors}
		}
	}

	if (edge.needsConfirmation || res.HasWarnings()) && !confirmed {
		return res, ErrConfirmationRequired
	}

	return res, nil
}
