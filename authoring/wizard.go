package authoring

import (
	"context"
	"log"
	"sync"
	"time"

	course "lms/models/course"
)

// ConfirmFunc answers a yes/no question for the user, e.g. "publish with
// these warnings?" or "unpublish this course?". A nil ConfirmFunc answers no.
type ConfirmFunc func(warnings []Issue) bool

// SubmitOutcome reports what a Submit attempt decided
type SubmitOutcome struct {
	Result Result
	// First wizard step holding a blocking error; the wizard has already
	// repositioned itself there when Submit returns ErrValidationFailed
	FailedStep    Step
	StatusChanged bool
}

// Wizard sequences a course draft through the authoring steps, gates
// navigation on step-scoped validation and owns the save pipeline:
// validate, confirm warnings, diff-and-sync children, upsert the course,
// transition status.
//
// A wizard belongs to a single authoring session, but the auto-save flush
// runs on a timer goroutine, so mu guards the draft and the persisted
// snapshot: mutators and Edit hold it while writing, and the save pipeline
// holds it end to end. The saving flag rejects a submit that overlaps an
// unfinished save.
type Wizard struct {
	api       CourseAPI
	draft     *CourseDraft
	persisted *CourseDraft // nil until the course exists server-side
	steps     []Step
	stepIdx   int

	mu     sync.Mutex
	saving bool

	autosaveDelay time.Duration
	autosaveTimer *time.Timer
	saveTimeout   time.Duration
}

// NewWizard starts a wizard for a brand-new course. The type-selection
// step is included because nothing is known about the course yet.
func NewWizard(api CourseAPI) *Wizard {
	return &Wizard{
		api:         api,
		draft:       NewCourseDraft(),
		steps:       []Step{StepType, StepBasicInfo, StepPricing, StepCurriculum, StepSettings, StepReview},
		saveTimeout: 30 * time.Second,
	}
}

// EditWizard starts a wizard over an already-hydrated draft. The type step
// is skipped for existing courses.
func EditWizard(api CourseAPI, d *CourseDraft) *Wizard {
	return &Wizard{
		api:         api,
		draft:       d,
		persisted:   d.Clone(),
		steps:       []Step{StepBasicInfo, StepPricing, StepCurriculum, StepSettings, StepReview},
		saveTimeout: 30 * time.Second,
	}
}

// LoadWizard hydrates the draft from the persistence API and opens an
// edit wizard over it
func LoadWizard(ctx context.Context, api CourseAPI, id uint) (*Wizard, error) {
	d, err := api.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return EditWizard(api, d), nil
}

// Draft exposes the draft for reads. Field writes go through Edit and
// structural changes through the wizard mutators so ordering stays dense
// and every write is serialized against the auto-save flush.
func (w *Wizard) Draft() *CourseDraft { return w.draft }

// Edit applies a field change under the wizard's lock and arms the
// auto-save timer
func (w *Wizard) Edit(fn func(d *CourseDraft)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.draft)
	w.touch()
}

// Step returns the step the wizard is currently on
func (w *Wizard) Step() Step { return w.steps[w.stepIdx] }

// Steps returns the ordered step list for this session
func (w *Wizard) Steps() []Step { return w.steps }

// Next validates the current step and advances when it is clean. The
// returned result carries the step's issues either way.
func (w *Wizard) Next() Result {
	res := ValidateStep(w.draft, w.Step())
	if !res.HasErrors() && w.stepIdx < len(w.steps)-1 {
		w.stepIdx++
	}
	return res
}

// Back moves to the previous step. Backward navigation is never gated.
func (w *Wizard) Back() {
	if w.stepIdx > 0 {
		w.stepIdx--
	}
}

// GoTo jumps directly to a step, used when an error send the user back
func (w *Wizard) GoTo(step Step) {
	for i, s := range w.steps {
		if s == step {
			w.stepIdx = i
			return
		}
	}
}

// SetCourseType records the type and keeps the pricing coupling intact:
// picking membership forces subscription pricing.
func (w *Wizard) SetCourseType(t course.Type) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Type = t
	if t == course.TypeMembership {
		w.draft.PricingModel = course.PricingSubscription
	}
	w.touch()
}

// AddModule appends a new module and returns it for further edits
func (w *Wizard) AddModule(title, description string) *ModuleDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Modules = append(w.draft.Modules, ModuleDraft{Title: title, Description: description})
	w.draft.normalizeOrder()
	w.touch()
	return &w.draft.Modules[len(w.draft.Modules)-1]
}

// RemoveModule drops the module at idx; its unsaved lessons go with it
func (w *Wizard) RemoveModule(idx int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if idx < 0 || idx >= len(w.draft.Modules) {
		return
	}
	w.draft.Modules = append(w.draft.Modules[:idx], w.draft.Modules[idx+1:]...)
	w.draft.normalizeOrder()
	w.touch()
}

// MoveModule reorders modules; order values are reassigned densely
func (w *Wizard) MoveModule(from, to int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.draft.Modules)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	m := w.draft.Modules[from]
	rest := append(w.draft.Modules[:from], w.draft.Modules[from+1:]...)
	w.draft.Modules = append(rest[:to], append([]ModuleDraft{m}, rest[to:]...)...)
	w.draft.normalizeOrder()
	w.touch()
}

// AddLesson appends a lesson to the module at moduleIdx
func (w *Wizard) AddLesson(moduleIdx int, l LessonDraft) *LessonDraft {
	w.mu.Lock()
	defer w.mu.Unlock()
	if moduleIdx < 0 || moduleIdx >= len(w.draft.Modules) {
		return nil
	}
	m := &w.draft.Modules[moduleIdx]
	l.ID = nil
	m.Lessons = append(m.Lessons, l)
	w.draft.normalizeOrder()
	w.touch()
	return &m.Lessons[len(m.Lessons)-1]
}

// RemoveLesson drops a lesson from the module at moduleIdx
func (w *Wizard) RemoveLesson(moduleIdx, lessonIdx int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if moduleIdx < 0 || moduleIdx >= len(w.draft.Modules) {
		return
	}
	m := &w.draft.Modules[moduleIdx]
	if lessonIdx < 0 || lessonIdx >= len(m.Lessons) {
		return
	}
	m.Lessons = append(m.Lessons[:lessonIdx], m.Lessons[lessonIdx+1:]...)
	w.draft.normalizeOrder()
	w.touch()
}

// MoveLesson reorders lessons within one module
func (w *Wizard) MoveLesson(moduleIdx, from, to int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if moduleIdx < 0 || moduleIdx >= len(w.draft.Modules) {
		return
	}
	m := &w.draft.Modules[moduleIdx]
	n := len(m.Lessons)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	l := m.Lessons[from]
	rest := append(m.Lessons[:from], m.Lessons[from+1:]...)
	m.Lessons = append(rest[:to], append([]LessonDraft{l}, rest[to:]...)...)
	w.draft.normalizeOrder()
	w.touch()
}

// Submit runs the full save pipeline toward the requested target status.
//
//  1. Full-draft validation; on blocking errors the wizard repositions to
//     the first offending step and returns ErrValidationFailed.
//  2. Warnings need the user's confirmation whenever the target demands
//     publish-readiness; a decline is a complete no-op (no network
//     traffic).
//  3. Children are diff-and-synced serially, then the course upserted,
//     then the status transition sent if the status actually changes.
//
// The wizard's lock is held for the whole pipeline, so draft edits and the
// auto-save flush wait for an in-progress submit instead of racing it.
// A SyncError leaves the draft intact; calling Submit again retries only
// the commands that never applied.
func (w *Wizard) Submit(ctx context.Context, target course.Status, confirm ConfirmFunc) (*SubmitOutcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submit(ctx, target, confirm)
}

// submit assumes w.mu is held
func (w *Wizard) submit(ctx context.Context, target course.Status, confirm ConfirmFunc) (*SubmitOutcome, error) {
	if w.saving {
		return nil, ErrSaveInFlight
	}
	w.saving = true
	defer func() { w.saving = false }()
	if w.autosaveTimer != nil {
		w.autosaveTimer.Stop()
	}

	out := &SubmitOutcome{}

	statusChanging := w.draft.Status != target
	if statusChanging && !CanTransition(w.draft.Status, target) {
		return out, &TransitionError{From: w.draft.Status, To: target, Reason: "transition not allowed"}
	}

	out.Result = Validate(w.draft, target)
	if out.Result.HasErrors() {
		out.FailedStep = StepFor(out.Result.Errors[0].Field)
		w.GoTo(out.FailedStep)
		return out, ErrValidationFailed
	}

	// Warnings gate every submit against a publish-strict target, so a
	// live course picking up a fresh warning still asks before re-saving
	needsConfirm := false
	switch target {
	case course.StatusActive, course.StatusPendingApproval:
		needsConfirm = out.Result.HasWarnings()
	}
	if statusChanging {
		if edge, ok := transitionTable[w.draft.Status][target]; ok && edge.needsConfirmation {
			needsConfirm = true
		}
	}
	if needsConfirm {
		if confirm == nil || !confirm(out.Result.Warnings) {
			return out, ErrConfirmationDeclined
		}
	}

	if err := w.persist(ctx, target); err != nil {
		return out, err
	}

	out.StatusChanged = statusChanging
	return out, nil
}

// SaveDraft persists the current state without changing status, the
// operation behind the wizard's save button and the auto-save timer.
func (w *Wizard) SaveDraft(ctx context.Context) (*SubmitOutcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submit(ctx, w.draft.Status, nil)
}

// Unpublish confirms and applies ACTIVE -> INACTIVE. Content validation is
// deliberately skipped: unpublishing only stops new enrollments, existing
// ones are untouched. A declined confirmation changes nothing and sends
// nothing.
func (w *Wizard) Unpublish(ctx context.Context, confirm ConfirmFunc) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.saving {
		return false, ErrSaveInFlight
	}
	w.saving = true
	defer func() { w.saving = false }()

	if w.draft.Status != course.StatusActive {
		return false, &TransitionError{From: w.draft.Status, To: course.StatusInactive, Reason: "course is not active"}
	}
	if confirm == nil || !confirm(nil) {
		return false, nil
	}
	if w.draft.ID == nil {
		return false, &TransitionError{From: w.draft.Status, To: course.StatusInactive, Reason: "course is not persisted"}
	}

	err := w.api.UpdateStatus(ctx, *w.draft.ID, StatusChange{
		Status:  string(course.StatusInactive),
		Confirm: true,
	})
	if err != nil {
		return false, err
	}

	w.draft.Status = course.StatusInactive
	if w.persisted != nil {
		w.persisted.Status = course.StatusInactive
	}
	return true, nil
}

// persist is the ordered save pipeline shared by Submit and auto-save.
// Assumes w.mu is held.
func (w *Wizard) persist(ctx context.Context, target course.Status) error {
	// A new course must exist before its modules can reference it
	if w.draft.ID == nil {
		id, err := w.api.CreateCourse(ctx, w.draft)
		if err != nil {
			return err
		}
		w.draft.ID = &id
		w.persisted = &CourseDraft{ID: clonePtr(w.draft.ID), Status: course.StatusDraft}
	}

	if err := syncChildren(ctx, w.api, *w.draft.ID, w.draft, w.persisted); err != nil {
		return err
	}

	if err := w.api.UpdateCourse(ctx, w.draft); err != nil {
		return err
	}

	if w.draft.Status != target {
		err := w.api.UpdateStatus(ctx, *w.draft.ID, StatusChange{Status: string(target), Confirm: true})
		if err != nil {
			return err
		}
		w.draft.Status = target
	}

	w.persisted = w.draft.Clone()
	return nil
}

// EnableAutoSave debounces background draft saves: every mutation resets
// the timer, and the flush is skipped while a manual save is in flight or
// once the course has left draft status.
func (w *Wizard) EnableAutoSave(delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autosaveDelay = delay
}

// DisableAutoSave stops the debounce timer
func (w *Wizard) DisableAutoSave() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autosaveDelay = 0
	if w.autosaveTimer != nil {
		w.autosaveTimer.Stop()
		w.autosaveTimer = nil
	}
}

// touch arms the debounce timer. Assumes w.mu is held.
func (w *Wizard) touch() {
	if w.autosaveDelay <= 0 {
		return
	}
	if w.autosaveTimer != nil {
		w.autosaveTimer.Stop()
	}
	w.autosaveTimer = time.AfterFunc(w.autosaveDelay, w.autosaveFlush)
}

// autosaveFlush runs on the timer goroutine; the lock serializes it
// against draft edits and manual saves
func (w *Wizard) autosaveFlush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.autosaveDelay <= 0 || w.draft.Status != course.StatusDraft {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.saveTimeout)
	defer cancel()
	if _, err := w.submit(ctx, w.draft.Status, nil); err != nil {
		// Auto-save must never lose work or interrupt the author; a
		// manual save in flight or a validation gap just waits for the
		// next edit.
		if err != ErrSaveInFlight && err != ErrValidationFailed {
			log.Printf("[AUTHORING] auto-save failed: %v", err)
		}
	}
}
