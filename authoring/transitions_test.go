package authoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	course "lms/models/course"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to course.Status
		allowed  bool
	}{
		{course.StatusDraft, course.StatusActive, true},
		{course.StatusDraft, course.StatusPendingApproval, true},
		{course.StatusDraft, course.StatusInactive, false},
		{course.StatusPendingApproval, course.StatusActive, true},
		{course.StatusPendingApproval, course.StatusDraft, true},
		{course.StatusPendingApproval, course.StatusInactive, false},
		{course.StatusActive, course.StatusInactive, true},
		{course.StatusActive, course.StatusDraft, false},
		{course.StatusInactive, course.StatusActive, true},
		{course.StatusInactive, course.StatusDraft, false},
		{course.StatusDraft, course.StatusArchived, true},
		{course.StatusActive, course.StatusArchived, true},
		{course.StatusInactive, course.StatusArchived, true},
		{course.StatusArchived, course.StatusDraft, false},
		{course.StatusArchived, course.StatusActive, false},
		{course.StatusArchived, course.StatusArchived, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestRequestTransitionSameStatusIsNoop(t *testing.T) {
	d := publishableDraft()
	d.Status = course.StatusArchived // even from the terminal state

	res, err := RequestTransition(d, course.StatusArchived, false)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
}

func TestRequestTransitionDeniedEdge(t *testing.T) {
	d := publishableDraft()
	d.Status = course.StatusActive

	_, err := RequestTransition(d, course.StatusDraft, true)
	var denied *TransitionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, course.StatusActive, denied.From)
	assert.Equal(t, course.StatusDraft, denied.To)
	assert.Empty(t, denied.Issues)
}

func TestPublishValidatesDraft(t *testing.T) {
	d := publishableDraft()
	d.Title = ""

	res, err := RequestTransition(d, course.StatusActive, true)
	var denied *TransitionError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, fieldsOf(denied.Issues), "title")
	assert.Equal(t, res.Errors, denied.Issues)

	// the gate never mutates the draft
	assert.Equal(t, course.StatusDraft, d.Status)
}

func TestUnpublishNeedsConfirmation(t *testing.T) {
	d := publishableDraft()
	d.Status = course.StatusActive

	_, err := RequestTransition(d, course.StatusInactive, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	// unpublish skips the publish validator entirely, so a draft that
	// would no longer validate can still be taken down
	d.Title = ""
	_, err = RequestTransition(d, course.StatusInactive, true)
	assert.NoError(t, err)
}

func TestRepublishRevalidates(t *testing.T) {
	d := publishableDraft()
	d.Status = course.StatusInactive
	d.Modules[0].Lessons = nil

	_, err := RequestTransition(d, course.StatusActive, true)
	var denied *TransitionError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, fieldsOf(denied.Issues), "modules[0]")
}

func TestPublishWithWarningsNeedsConfirmation(t *testing.T) {
	d := publishableDraft()
	d.ThumbnailURL = ""

	res, err := RequestTransition(d, course.StatusActive, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Contains(t, fieldsOf(res.Warnings), "thumbnail_url")

	res, err = RequestTransition(d, course.StatusActive, true)
	require.NoError(t, err)
	assert.Contains(t, fieldsOf(res.Warnings), "thumbnail_url")
}

func TestArchiveAlwaysNeedsConfirmation(t *testing.T) {
	for _, from := range []course.Status{
		course.StatusDraft,
		course.StatusPendingApproval,
		course.StatusActive,
		course.StatusInactive,
	} {
		d := publishableDraft()
		d.Status = from

		_, err := RequestTransition(d, course.StatusArchived, false)
		assert.ErrorIs(t, err, ErrConfirmationRequired, "from %s", from)

		_, err = RequestTransition(d, course.StatusArchived, true)
		assert.NoError(t, err, "from %s", from)
	}
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]course.Status{course.StatusPendingApproval, course.StatusActive, course.StatusArchived},
		AllowedTransitions(course.StatusDraft))
	assert.Empty(t, AllowedTransitions(course.StatusArchived))
}
