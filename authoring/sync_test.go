package authoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	course "lms/models/course"
)

// fakeAPI records every call in order and hands out sequential IDs for
// creates. A call whose description contains failOn fails once with failErr.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	nextID  uint
	failOn  string
	failErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1000}
}

func (f *fakeAPI) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := fmt.Sprintf(format, args...)
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.Contains(call, f.failOn) {
		f.failOn = ""
		if f.failErr != nil {
			return f.failErr
		}
		return errors.New("injected failure")
	}
	return nil
}

// callLog returns a copy of the recorded calls, safe to read while a
// background save is running
func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) allocID() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) GetCourse(ctx context.Context, id uint) (*CourseDraft, error) {
	if err := f.record("getCourse %d", id); err != nil {
		return nil, err
	}
	d := publishableDraft()
	d.ID = ptr(id)
	return d, nil
}

func (f *fakeAPI) CreateCourse(ctx context.Context, d *CourseDraft) (uint, error) {
	if err := f.record("createCourse %q", d.Title); err != nil {
		return 0, err
	}
	return f.allocID(), nil
}

func (f *fakeAPI) UpdateCourse(ctx context.Context, d *CourseDraft) error {
	return f.record("updateCourse %d", *d.ID)
}

func (f *fakeAPI) UpdateStatus(ctx context.Context, id uint, sc StatusChange) error {
	return f.record("updateStatus %d %s", id, sc.Status)
}

func (f *fakeAPI) CreateModule(ctx context.Context, courseID uint, m *ModuleDraft) (uint, error) {
	if err := f.record("createModule %q", m.Title); err != nil {
		return 0, err
	}
	return f.allocID(), nil
}

func (f *fakeAPI) UpdateModule(ctx context.Context, courseID uint, m *ModuleDraft) error {
	return f.record("updateModule %d %q", *m.ID, m.Title)
}

func (f *fakeAPI) DeleteModule(ctx context.Context, courseID, moduleID uint) error {
	return f.record("deleteModule %d", moduleID)
}

func (f *fakeAPI) CreateLesson(ctx context.Context, courseID, moduleID uint, l *LessonDraft) (uint, error) {
	if err := f.record("createLesson %d %q", moduleID, l.Title); err != nil {
		return 0, err
	}
	return f.allocID(), nil
}

func (f *fakeAPI) UpdateLesson(ctx context.Context, moduleID uint, l *LessonDraft) error {
	return f.record("updateLesson %d %q", *l.ID, l.Title)
}

func (f *fakeAPI) DeleteLesson(ctx context.Context, moduleID, lessonID uint) error {
	return f.record("deleteLesson %d", lessonID)
}

// persistedPair builds a persisted snapshot with modules A(#1) and B(#2),
// A holding lesson #11, and the matching draft (a fresh deep copy).
func persistedPair() (draft, snap *CourseDraft) {
	snap = NewCourseDraft()
	snap.ID = ptr(5)
	snap.Title = "Persisted course"
	snap.Modules = []ModuleDraft{
		{ID: ptr(1), Title: "A", Lessons: []LessonDraft{
			{ID: ptr(11), Title: "A1", Type: course.LessonText, Content: "body"},
		}},
		{ID: ptr(2), Title: "B", Lessons: []LessonDraft{
			{ID: ptr(21), Title: "B1", Type: course.LessonText, Content: "body"},
		}},
	}
	snap.normalizeOrder()
	return snap.Clone(), snap
}

func TestDiffCommandsNoChanges(t *testing.T) {
	draft, snap := persistedPair()
	assert.Empty(t, DiffCommands(draft, snap))
}

func TestDiffCommandsMixedChanges(t *testing.T) {
	draft, snap := persistedPair()

	// edit A, drop B, add C with one lesson
	draft.Modules[0].Title = "A edited"
	draft.Modules = draft.Modules[:1]
	draft.Modules = append(draft.Modules, ModuleDraft{
		Title: "C",
		Lessons: []LessonDraft{
			{Title: "C1", Type: course.LessonText, Content: "body"},
		},
	})
	draft.normalizeOrder()

	cmds := DiffCommands(draft, snap)
	require.Len(t, cmds, 4)

	// B's lesson goes before B itself
	assert.Equal(t, OpDelete, cmds[0].Op)
	assert.Equal(t, EntityLesson, cmds[0].Entity)
	assert.Equal(t, uint(21), cmds[0].LessonID)

	assert.Equal(t, OpDelete, cmds[1].Op)
	assert.Equal(t, EntityModule, cmds[1].Entity)
	assert.Equal(t, uint(2), cmds[1].ModuleID)

	assert.Equal(t, OpUpdate, cmds[2].Op)
	assert.Equal(t, EntityModule, cmds[2].Entity)
	assert.Equal(t, uint(1), cmds[2].ModuleID)

	// C's create precedes its lesson create; the lesson command carries a
	// pointer to C so the ID resolves at execution time
	assert.Equal(t, OpCreate, cmds[3].Op)
	assert.Equal(t, EntityModule, cmds[3].Entity)
	assert.Equal(t, "C", cmds[3].Module.Title)
	require.Len(t, cmds[3].Module.Lessons, 1)
}

func TestDiffCommandsUnchangedEntitiesSkipped(t *testing.T) {
	draft, snap := persistedPair()
	draft.Modules[0].Lessons[0].Content = "revised body"

	cmds := DiffCommands(draft, snap)
	require.Len(t, cmds, 1)
	assert.Equal(t, OpUpdate, cmds[0].Op)
	assert.Equal(t, EntityLesson, cmds[0].Entity)
	assert.Equal(t, uint(11), cmds[0].LessonID)
}

func TestDiffCommandsReorderIsUpdate(t *testing.T) {
	draft, snap := persistedPair()
	draft.Modules[0], draft.Modules[1] = draft.Modules[1], draft.Modules[0]
	draft.normalizeOrder()

	cmds := DiffCommands(draft, snap)
	require.Len(t, cmds, 2)
	for _, c := range cmds {
		assert.Equal(t, OpUpdate, c.Op)
		assert.Equal(t, EntityModule, c.Entity)
	}
}

func TestSyncResolvesModuleIDBeforeLessonCreate(t *testing.T) {
	draft, snap := persistedPair()
	draft.Modules = append(draft.Modules, ModuleDraft{
		Title: "C",
		Lessons: []LessonDraft{
			{Title: "C1", Type: course.LessonText, Content: "body"},
		},
	})
	draft.normalizeOrder()

	api := newFakeAPI()
	err := syncChildren(context.Background(), api, 5, draft, snap)
	require.NoError(t, err)

	require.Len(t, api.calls, 2)
	assert.Equal(t, `createModule "C"`, api.calls[0])

	newModule := draft.Modules[2]
	require.NotNil(t, newModule.ID)
	assert.Equal(t, fmt.Sprintf("createLesson %d %q", *newModule.ID, "C1"), api.calls[1])
	require.NotNil(t, newModule.Lessons[0].ID)

	// the snapshot now mirrors the server, so a second sync is a no-op
	err = syncChildren(context.Background(), api, 5, draft, snap)
	require.NoError(t, err)
	assert.Len(t, api.calls, 2)
}

func TestSyncPartialFailureAndRetry(t *testing.T) {
	draft, snap := persistedPair()
	draft.Modules[0].Title = "A edited"
	draft.Modules = append(draft.Modules, ModuleDraft{
		Title: "C",
		Lessons: []LessonDraft{
			{Title: "C1", Type: course.LessonText, Content: "body"},
		},
	})
	draft.normalizeOrder()

	api := newFakeAPI()
	api.failOn = "createLesson"
	api.failErr = fmt.Errorf("gateway: %w", ErrUnavailable)

	err := syncChildren(context.Background(), api, 5, draft, snap)
	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.ErrorIs(t, err, ErrUnavailable)

	// module update and module create landed before the failure
	assert.Len(t, syncErr.Applied, 2)
	assert.Equal(t, EntityLesson, syncErr.Failed.Entity)
	assert.Empty(t, syncErr.Remaining)

	// the applied work is already mirrored into the snapshot, so the retry
	// issues only the failed lesson create
	before := len(api.calls)
	err = syncChildren(context.Background(), api, 5, draft, snap)
	require.NoError(t, err)
	require.Len(t, api.calls, before+1)
	assert.Contains(t, api.calls[before], "createLesson")
}

func TestSyncDeleteUpdatesSnapshot(t *testing.T) {
	draft, snap := persistedPair()
	draft.Modules = draft.Modules[:1]
	draft.normalizeOrder()

	api := newFakeAPI()
	require.NoError(t, syncChildren(context.Background(), api, 5, draft, snap))
	assert.Equal(t, []string{"deleteLesson 21", "deleteModule 2"}, api.calls)
	assert.Len(t, snap.Modules, 1)
}
