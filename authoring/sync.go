package authoring

import (
	"context"
	"fmt"
)

// CourseAPI is the external persistence surface the workflow talks to.
// The resty client in this package implements it against the HTTP service;
// tests substitute a fake.
type CourseAPI interface {
	GetCourse(ctx context.Context, id uint) (*CourseDraft, error)
	CreateCourse(ctx context.Context, d *CourseDraft) (uint, error)
	UpdateCourse(ctx context.Context, d *CourseDraft) error
	UpdateStatus(ctx context.Context, id uint, status StatusChange) error

	CreateModule(ctx context.Context, courseID uint, m *ModuleDraft) (uint, error)
	UpdateModule(ctx context.Context, courseID uint, m *ModuleDraft) error
	DeleteModule(ctx context.Context, courseID, moduleID uint) error

	CreateLesson(ctx context.Context, courseID, moduleID uint, l *LessonDraft) (uint, error)
	UpdateLesson(ctx context.Context, moduleID uint, l *LessonDraft) error
	DeleteLesson(ctx context.Context, moduleID, lessonID uint) error
}

// StatusChange is the body of a status transition call
type StatusChange struct {
	Status  string `json:"status"`
	Confirm bool   `json:"confirm"`
}

// syncChildren diffs the draft against the snapshot and executes the
// resulting commands strictly in order. Each applied command is mirrored
// into the snapshot immediately, so a failed run leaves the snapshot
// describing exactly what the server now holds and a retry re-diffs only
// the unfinished work.
func syncChildren(ctx context.Context, api CourseAPI, courseID uint, draft, persisted *CourseDraft) error {
	cmds := DiffCommands(draft, persisted)
	for i, cmd := range cmds {
		if err := execCommand(ctx, api, courseID, cmd, persisted); err != nil {
			return &SyncError{
				Applied:   cmds[:i],
				Failed:    cmd,
				Remaining: cmds[i+1:],
				Err:       err,
			}
		}
	}
	return nil
}

func execCommand(ctx context.Context, api CourseAPI, courseID uint, cmd Command, snap *CourseDraft) error {
	switch {
	case cmd.Entity == EntityModule && cmd.Op == OpCreate:
		id, err := api.CreateModule(ctx, courseID, cmd.Module)
		if err != nil {
			return err
		}
		cmd.Module.ID = &id
		snapModule := *cmd.Module
		snapModule.ID = clonePtr(cmd.Module.ID)
		snapModule.Lessons = nil // lesson creates are tracked individually
		snap.Modules = append(snap.Modules, snapModule)
		return nil

	case cmd.Entity == EntityModule && cmd.Op == OpUpdate:
		if err := api.UpdateModule(ctx, courseID, cmd.Module); err != nil {
			return err
		}
		if sm := findModule(snap.Modules, cmd.ModuleID); sm != nil {
			sm.Title = cmd.Module.Title
			sm.Description = cmd.Module.Description
			sm.Order = cmd.Module.Order
		}
		return nil

	case cmd.Entity == EntityModule && cmd.Op == OpDelete:
		if err := api.DeleteModule(ctx, courseID, cmd.ModuleID); err != nil {
			return err
		}
		snap.removeModule(cmd.ModuleID)
		return nil

	case cmd.Entity == EntityLesson && cmd.Op == OpCreate:
		if cmd.Parent == nil || cmd.Parent.ID == nil {
			return fmt.Errorf("lesson %q: owning module has no id yet", cmd.Lesson.Title)
		}
		id, err := api.CreateLesson(ctx, courseID, *cmd.Parent.ID, cmd.Lesson)
		if err != nil {
			return err
		}
		cmd.Lesson.ID = &id
		if sm := findModule(snap.Modules, *cmd.Parent.ID); sm != nil {
			snapLesson := *cmd.Lesson
			snapLesson.ID = clonePtr(cmd.Lesson.ID)
			sm.Lessons = append(sm.Lessons, snapLesson)
		}
		return nil

	case cmd.Entity == EntityLesson && cmd.Op == OpUpdate:
		if cmd.Parent == nil || cmd.Parent.ID == nil {
			return fmt.Errorf("lesson %q: owning module has no id yet", cmd.Lesson.Title)
		}
		if err := api.UpdateLesson(ctx, *cmd.Parent.ID, cmd.Lesson); err != nil {
			return err
		}
		if sm := findModule(snap.Modules, *cmd.Parent.ID); sm != nil {
			if sl := findLesson(sm.Lessons, cmd.LessonID); sl != nil {
				*sl = *cmd.Lesson
				sl.ID = clonePtr(cmd.Lesson.ID)
			}
		}
		return nil

	case cmd.Entity == EntityLesson && cmd.Op == OpDelete:
		if err := api.DeleteLesson(ctx, cmd.ModuleID, cmd.LessonID); err != nil {
			return err
		}
		if sm := findModule(snap.Modules, cmd.ModuleID); sm != nil {
			sm.removeLesson(cmd.LessonID)
		}
		return nil
	}

	return fmt.Errorf("unknown command %s", cmd)
}

func (d *CourseDraft) removeModule(id uint) {
	for i := range d.Modules {
		if d.Modules[i].ID != nil && *d.Modules[i].ID == id {
			d.Modules = append(d.Modules[:i], d.Modules[i+1:]...)
			return
		}
	}
}

func (m *ModuleDraft) removeLesson(id uint) {
	for i := range m.Lessons {
		if m.Lessons[i].ID != nil && *m.Lessons[i].ID == id {
			m.Lessons = append(m.Lessons[:i], m.Lessons[i+1:]...)
			return
		}
	}
}
