package authoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	course "lms/models/course"
)

func confirmYes([]Issue) bool { return true }
func confirmNo([]Issue) bool  { return false }

func TestWizardStepGating(t *testing.T) {
	w := NewWizard(newFakeAPI())
	assert.Equal(t, StepType, w.Step())

	// the default type is valid, so the type step passes immediately
	res := w.Next()
	assert.False(t, res.HasErrors())
	assert.Equal(t, StepBasicInfo, w.Step())

	// an empty basic-info step blocks forward navigation
	res = w.Next()
	assert.True(t, res.HasErrors())
	assert.Equal(t, StepBasicInfo, w.Step())

	// backward navigation is never gated
	w.Back()
	assert.Equal(t, StepType, w.Step())
}

func TestWizardNextStopsAtLastStep(t *testing.T) {
	w := NewWizard(newFakeAPI())
	w.GoTo(StepReview)
	w.Next()
	assert.Equal(t, StepReview, w.Step())
}

func TestSubmitRepositionsToFirstErrorStep(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	d.Description = "too short"
	w := EditWizard(api, d)
	w.GoTo(StepReview)

	out, err := w.Submit(context.Background(), course.StatusActive, confirmYes)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, StepBasicInfo, out.FailedStep)
	assert.Equal(t, StepBasicInfo, w.Step())

	// an aborted submit never reaches the network
	assert.Empty(t, api.calls)
}

func TestSubmitDeclinedWarningIsNoop(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	d.ThumbnailURL = ""
	w := EditWizard(api, d)

	out, err := w.Submit(context.Background(), course.StatusActive, confirmNo)
	assert.ErrorIs(t, err, ErrConfirmationDeclined)
	assert.Contains(t, fieldsOf(out.Result.Warnings), "thumbnail_url")
	assert.Empty(t, api.calls)
	assert.Equal(t, course.StatusDraft, w.Draft().Status)
}

func TestSubmitPublishExistingCourse(t *testing.T) {
	api := newFakeAPI()
	w := EditWizard(api, publishableDraft())

	out, err := w.Submit(context.Background(), course.StatusActive, confirmYes)
	require.NoError(t, err)
	assert.True(t, out.StatusChanged)
	assert.Equal(t, course.StatusActive, w.Draft().Status)

	// nothing structural changed, so only the course upsert and the
	// status transition go out
	assert.Equal(t, []string{"updateCourse 1", "updateStatus 1 ACTIVE"}, api.calls)
}

func TestSubmitNewCoursePipelineOrder(t *testing.T) {
	api := newFakeAPI()
	w := NewWizard(api)

	d := w.Draft()
	src := publishableDraft()
	src.ID = nil
	for i := range src.Modules {
		src.Modules[i].ID = nil
		for j := range src.Modules[i].Lessons {
			src.Modules[i].Lessons[j].ID = nil
		}
	}
	*d = *src

	out, err := w.Submit(context.Background(), course.StatusActive, confirmYes)
	require.NoError(t, err)
	assert.True(t, out.StatusChanged)

	require.Len(t, api.calls, 7)
	assert.Contains(t, api.calls[0], "createCourse")
	assert.Contains(t, api.calls[1], "createModule")
	for _, call := range api.calls[2:5] {
		assert.Contains(t, call, "createLesson")
	}
	assert.Contains(t, api.calls[5], "updateCourse")
	assert.Contains(t, api.calls[6], "updateStatus")

	// every draft entity resolved its server ID
	require.NotNil(t, d.ID)
	require.NotNil(t, d.Modules[0].ID)
	for _, l := range d.Modules[0].Lessons {
		require.NotNil(t, l.ID)
	}
}

func TestSubmitDeniedTransition(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	d.Status = course.StatusArchived
	w := EditWizard(api, d)

	_, err := w.Submit(context.Background(), course.StatusActive, confirmYes)
	var denied *TransitionError
	require.ErrorAs(t, err, &denied)
	assert.Empty(t, api.calls)
}

func TestSubmitWhileSaveInFlight(t *testing.T) {
	w := EditWizard(newFakeAPI(), publishableDraft())
	w.mu.Lock()
	w.saving = true
	w.mu.Unlock()

	_, err := w.Submit(context.Background(), course.StatusActive, confirmYes)
	assert.ErrorIs(t, err, ErrSaveInFlight)

	w.mu.Lock()
	w.saving = false
	w.mu.Unlock()
	_, err = w.Submit(context.Background(), course.StatusActive, confirmYes)
	assert.NoError(t, err)
}

func TestSaveDraftSkipsWarningConfirmation(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	d.ThumbnailURL = "" // would warn on publish
	w := EditWizard(api, d)

	out, err := w.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.False(t, out.StatusChanged)
	assert.Equal(t, []string{"updateCourse 1"}, api.calls)
}

func TestResaveActiveCourseConfirmsWarnings(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	d.Status = course.StatusActive
	d.ThumbnailURL = ""
	w := EditWizard(api, d)

	// a live course that picked up a warning asks again even though the
	// status is not changing
	_, err := w.Submit(context.Background(), course.StatusActive, confirmNo)
	assert.ErrorIs(t, err, ErrConfirmationDeclined)
	assert.Empty(t, api.calls)

	out, err := w.Submit(context.Background(), course.StatusActive, confirmYes)
	require.NoError(t, err)
	assert.False(t, out.StatusChanged)
	assert.Equal(t, []string{"updateCourse 1"}, api.calls)
}

func TestSubmitRetryAfterPartialSync(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	w := EditWizard(api, d)

	w.AddModule("New module", "")
	w.AddLesson(1, LessonDraft{Title: "Intro", Type: course.LessonText, Content: "hello"})

	api.failOn = "createLesson"
	_, err := w.SaveDraft(context.Background())
	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)

	// the retry picks up at the failed lesson instead of re-creating the
	// module that already landed
	calls := len(api.calls)
	_, err = w.SaveDraft(context.Background())
	require.NoError(t, err)
	assert.Contains(t, api.calls[calls], "createLesson")

	moduleCreates := 0
	for _, c := range api.calls {
		if c == `createModule "New module"` {
			moduleCreates++
		}
	}
	assert.Equal(t, 1, moduleCreates)
}

func TestUnpublishConfirmAndCancel(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	d.Status = course.StatusActive
	w := EditWizard(api, d)

	done, err := w.Unpublish(context.Background(), confirmNo)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, api.calls) // cancel sends nothing
	assert.Equal(t, course.StatusActive, w.Draft().Status)

	done, err = w.Unpublish(context.Background(), confirmYes)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []string{"updateStatus 1 INACTIVE"}, api.calls)
	assert.Equal(t, course.StatusInactive, w.Draft().Status)
}

func TestUnpublishRequiresActive(t *testing.T) {
	w := EditWizard(newFakeAPI(), publishableDraft())

	_, err := w.Unpublish(context.Background(), confirmYes)
	var denied *TransitionError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, course.StatusDraft, denied.From)
}

func TestSetCourseTypeMembershipForcesSubscription(t *testing.T) {
	w := NewWizard(newFakeAPI())
	w.SetCourseType(course.TypeMembership)
	assert.Equal(t, course.PricingSubscription, w.Draft().PricingModel)
}

func TestModuleAndLessonMutatorsKeepDenseOrder(t *testing.T) {
	w := NewWizard(newFakeAPI())
	w.AddModule("One", "")
	w.AddModule("Two", "")
	w.AddModule("Three", "")

	w.MoveModule(2, 0)
	titles := []string{}
	for _, m := range w.Draft().Modules {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"Three", "One", "Two"}, titles)
	for i, m := range w.Draft().Modules {
		assert.Equal(t, i+1, m.Order)
	}

	w.AddLesson(0, LessonDraft{Title: "a", Type: course.LessonText, Content: "x"})
	w.AddLesson(0, LessonDraft{Title: "b", Type: course.LessonText, Content: "x"})
	w.MoveLesson(0, 1, 0)
	ls := w.Draft().Modules[0].Lessons
	assert.Equal(t, "b", ls[0].Title)
	assert.Equal(t, 1, ls[0].Order)
	assert.Equal(t, 2, ls[1].Order)

	w.RemoveLesson(0, 0)
	assert.Equal(t, 1, w.Draft().Modules[0].Lessons[0].Order)

	w.RemoveModule(0)
	assert.Equal(t, "One", w.Draft().Modules[0].Title)
	assert.Equal(t, 1, w.Draft().Modules[0].Order)
}

func TestAutoSaveDebounce(t *testing.T) {
	api := newFakeAPI()
	w := EditWizard(api, publishableDraft())
	w.EnableAutoSave(20 * time.Millisecond)
	defer w.DisableAutoSave()

	// rapid edits collapse into one flush
	w.AddModule("Extra", "")
	w.RemoveModule(1)
	w.Edit(func(d *CourseDraft) { d.Title = "Practical Sourdough Baking II" })

	require.Eventually(t, func() bool {
		return len(api.callLog()) > 0
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"updateCourse 1"}, api.callLog())

	w.mu.Lock()
	saved := w.persisted.Title
	w.mu.Unlock()
	assert.Equal(t, "Practical Sourdough Baking II", saved)
}

func TestAutoSaveConcurrentWithEdits(t *testing.T) {
	api := newFakeAPI()
	w := EditWizard(api, publishableDraft())
	w.EnableAutoSave(time.Millisecond)
	defer w.DisableAutoSave()

	// keep editing while flushes fire so mutations interleave with the
	// timer goroutine's save pipeline
	for i := 0; i < 50; i++ {
		w.AddModule("Scratch", "")
		w.Edit(func(d *CourseDraft) { d.Title = "Practical Sourdough Baking II" })
		w.RemoveModule(len(w.Draft().Modules) - 1)
		time.Sleep(time.Millisecond)
	}
	w.DisableAutoSave()

	_, err := w.SaveDraft(context.Background())
	require.NoError(t, err)

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Equal(t, w.draft.Title, w.persisted.Title)
	assert.Len(t, w.persisted.Modules, len(w.draft.Modules))
}

func TestAutoSaveSkipsPublishedCourses(t *testing.T) {
	api := newFakeAPI()
	d := publishableDraft()
	d.Status = course.StatusActive
	w := EditWizard(api, d)
	w.EnableAutoSave(10 * time.Millisecond)
	defer w.DisableAutoSave()

	w.Edit(func(d *CourseDraft) { d.Title = "Renamed while live" })

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, api.callLog())
}

func TestLoadWizardHydratesDraft(t *testing.T) {
	api := newFakeAPI()
	w, err := LoadWizard(context.Background(), api, 7)
	require.NoError(t, err)
	require.NotNil(t, w.Draft().ID)
	assert.Equal(t, uint(7), *w.Draft().ID)
	assert.NotContains(t, w.Steps(), StepType)
}
