package course

// Status is the lifecycle state of a course
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusActive          Status = "ACTIVE"
	StatusInactive        Status = "INACTIVE"
	StatusArchived        Status = "ARCHIVED"
)

// Type is the delivery format of a course
type Type string

const (
	TypeSprint     Type = "SPRINT"     // short, time-boxed course
	TypeMarathon   Type = "MARATHON"   // long-form, multi-module course
	TypeMembership Type = "MEMBERSHIP" // ongoing subscription content
	TypeCustom     Type = "CUSTOM"
)

// PricingModel controls how a course is charged
type PricingModel string

const (
	PricingFree         PricingModel = "FREE"
	PricingOneTime      PricingModel = "ONE_TIME"
	PricingSubscription PricingModel = "SUBSCRIPTION"
)

// LessonType is the content kind of a single lesson
type LessonType string

const (
	LessonVideo      LessonType = "VIDEO"
	LessonText       LessonType = "TEXT"
	LessonQuiz       LessonType = "QUIZ"
	LessonAssignment LessonType = "ASSIGNMENT"
)

// ValidStatus reports whether s is one of the known lifecycle states
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}
