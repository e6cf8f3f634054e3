package authoring

import "fmt"

// Op is the kind of change a command applies
type Op string

const (
	OpCreate Op = "CREATE"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Entity is the kind of child a command targets
type Entity string

const (
	EntityModule Entity = "MODULE"
	EntityLesson Entity = "LESSON"
)

// Command is one create/update/delete against the persistence API.
// Create and update commands point into the live draft, so a module create
// resolving its server ID mid-run is visible to the lesson creates queued
// behind it.
type Command struct {
	Op     Op
	Entity Entity

	// Set for deletes and updates of already-persisted entities
	ModuleID uint
	LessonID uint

	Module *ModuleDraft
	Lesson *LessonDraft
	// Owning module of a lesson create/update; its ID may only resolve
	// once the module's own create command has run
	Parent *ModuleDraft
}

func (c Command) String() string {
	name := ""
	switch {
	case c.Entity == EntityModule && c.Module != nil:
		name = c.Module.Title
	case c.Entity == EntityLesson && c.Lesson != nil:
		name = c.Lesson.Title
	}
	if name != "" {
		return fmt.Sprintf("%s %s %q", c.Op, c.Entity, name)
	}
	return fmt.Sprintf("%s %s #%d", c.Op, c.Entity, c.targetID())
}

func (c Command) targetID() uint {
	if c.Entity == EntityLesson {
		return c.LessonID
	}
	return c.ModuleID
}

// DiffCommands reconciles the draft's module/lesson tree against the
// last-known persisted snapshot. Entities in the draft without an ID are
// creates, entities in both are updates (only when changed), entities only
// in the snapshot are deletes.
//
// Command order honors the lesson->module foreign key: lesson deletes come
// before module deletes, and each module's create precedes its lesson
// creates.
func DiffCommands(draft, persisted *CourseDraft) []Command {
	var deletes, upserts []Command

	draftModules := make(map[uint]*ModuleDraft)
	for i := range draft.Modules {
		m := &draft.Modules[i]
		if m.ID != nil {
			draftModules[*m.ID] = m
		}
	}

	var persistedModules []ModuleDraft
	if persisted != nil {
		persistedModules = persisted.Modules
	}

	// Pass 1: deletions, lessons first
	for i := range persistedModules {
		pm := &persistedModules[i]
		if pm.ID == nil {
			continue
		}
		dm, kept := draftModules[*pm.ID]

		var keptLessons map[uint]bool
		if kept {
			keptLessons = make(map[uint]bool, len(dm.Lessons))
			for _, l := range dm.Lessons {
				if l.ID != nil {
					keptLessons[*l.ID] = true
				}
			}
		}
		for _, pl := range pm.Lessons {
			if pl.ID == nil {
				continue
			}
			if !kept || !keptLessons[*pl.ID] {
				deletes = append(deletes, Command{
					Op: OpDelete, Entity: EntityLesson,
					ModuleID: *pm.ID, LessonID: *pl.ID,
				})
			}
		}
		if !kept {
			deletes = append(deletes, Command{Op: OpDelete, Entity: EntityModule, ModuleID: *pm.ID})
		}
	}

	// Pass 2: creates and updates in draft order, module before its lessons
	for i := range draft.Modules {
		dm := &draft.Modules[i]

		var pm *ModuleDraft
		if dm.ID != nil {
			pm = findModule(persistedModules, *dm.ID)
		}

		switch {
		case pm == nil && dm.ID == nil:
			upserts = append(upserts, Command{Op: OpCreate, Entity: EntityModule, Module: dm})
		case pm != nil && moduleChanged(pm, dm):
			upserts = append(upserts, Command{Op: OpUpdate, Entity: EntityModule, ModuleID: *dm.ID, Module: dm})
		}

		var persistedLessons []LessonDraft
		if pm != nil {
			persistedLessons = pm.Lessons
		}
		for j := range dm.Lessons {
			dl := &dm.Lessons[j]
			if dl.ID == nil {
				upserts = append(upserts, Command{Op: OpCreate, Entity: EntityLesson, Lesson: dl, Parent: dm})
				continue
			}
			if pl := findLesson(persistedLessons, *dl.ID); pl != nil && lessonChanged(pl, dl) {
				upserts = append(upserts, Command{
					Op: OpUpdate, Entity: EntityLesson,
					LessonID: *dl.ID, Lesson: dl, Parent: dm,
				})
			}
		}
	}

	return append(deletes, upserts...)
}

func findModule(ms []ModuleDraft, id uint) *ModuleDraft {
	for i := range ms {
		if ms[i].ID != nil && *ms[i].ID == id {
			return &ms[i]
		}
	}
	return nil
}

func findLesson(ls []LessonDraft, id uint) *LessonDraft {
	for i := range ls {
		if ls[i].ID != nil && *ls[i].ID == id {
			return &ls[i]
		}
	}
	return nil
}

func moduleChanged(prev, cur *ModuleDraft) bool {
	return prev.Title != cur.Title ||
		prev.Description != cur.Description ||
		prev.Order != cur.Order
}

func lessonChanged(prev, cur *LessonDraft) bool {
	return prev.Title != cur.Title ||
		prev.Type != cur.Type ||
		prev.Duration != cur.Duration ||
		prev.Content != cur.Content ||
		prev.VideoURL != cur.VideoURL ||
		prev.Order != cur.Order
}
