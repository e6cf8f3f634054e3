package authoring

import (
	"fmt"
	"strconv"
	"strings"

	course "lms/models/course"
)

// Issue is a single validation finding tied to a draft field
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result separates blocking errors from non-blocking warnings. Warnings
// never block a transition on their own but require user confirmation.
type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r Result) HasErrors() bool   { return len(r.Errors) > 0 }
func (r Result) HasWarnings() bool { return len(r.Warnings) > 0 }

// ErrorMap flattens errors into the field->message shape the HTTP layer
// returns on 422s
func (r Result) ErrorMap() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, is := range r.Errors {
		if _, dup := out[is.Field]; !dup {
			out[is.Field] = is.Message
		}
	}
	return out
}

func (r *Result) addError(field, message string) {
	r.Errors = append(r.Errors, Issue{Field: field, Message: message})
}

func (r *Result) addWarning(field, message string) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: message})
}

func (r *Result) merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Step identifies one page of the authoring wizard
type Step string

const (
	StepType       Step = "TYPE"
	StepBasicInfo  Step = "BASIC_INFO"
	StepPricing    Step = "PRICING"
	StepCurriculum Step = "CURRICULUM"
	StepSettings   Step = "SETTINGS"
	StepReview     Step = "REVIEW"
)

// Publish-readiness thresholds. Draft saves only require a non-empty title.
const (
	minTitleLen        = 5
	minDescriptionLen  = 50
	maxSprintDays      = 30
	minMarathonModules = 3
)

// stepForField maps an offending field to the wizard step that owns it, so
// a failed submit can reposition the user.
var stepForField = map[string]Step{
	"course_type":    StepType,
	"title":          StepBasicInfo,
	"description":    StepBasicInfo,
	"category":       StepBasicInfo,
	"duration":       StepBasicInfo,
	"thumbnail_url":  StepBasicInfo,
	"price":          StepPricing,
	"original_price": StepPricing,
	"pricing_model":  StepPricing,
	"modules":        StepCurriculum,
	"lessons":        StepCurriculum,
	"features":       StepSettings,
}

// StepFor returns the wizard step owning a field, defaulting to Review
func StepFor(field string) Step {
	// module/lesson scoped errors look like "modules[2].lessons"
	root := field
	if i := strings.IndexByte(field, '['); i > 0 {
		root = field[:i]
	}
	if s, ok := stepForField[root]; ok {
		return s
	}
	return StepReview
}

// Validate checks a draft against a requested target status. It is pure
// and deterministic: same draft, same target, same result.
//
// Draft saves are permissive (a title is enough); moving to ACTIVE or
// PENDING_APPROVAL applies the full publish rule set.
func Validate(d *CourseDraft, target course.Status) Result {
	var res Result

	switch target {
	case course.StatusActive, course.StatusPendingApproval:
		res.merge(ValidateStep(d, StepType))
		res.merge(ValidateStep(d, StepBasicInfo))
		res.merge(ValidateStep(d, StepPricing))
		res.merge(ValidateStep(d, StepCurriculum))
		res.merge(ValidateStep(d, StepSettings))
		res.merge(publishWarnings(d))
	default:
		// Saving a draft (or archiving/unpublishing) never demands
		// publish-readiness, but a few rules hold at all times.
		if strings.TrimSpace(d.Title) == "" {
			res.addError("title", "Title is required!")
		}
		res.merge(pricingCoupling(d))
	}

	return res
}

// ValidateStep applies only the publish rules owned by one wizard step,
// used to gate forward navigation.
func ValidateStep(d *CourseDraft, step Step) Result {
	var res Result

	switch step {
	case StepType:
		switch d.Type {
		case course.TypeSprint, course.TypeMarathon, course.TypeMembership, course.TypeCustom:
		default:
			res.addError("course_type", "Select a course type!")
		}

	case StepBasicInfo:
		title := strings.TrimSpace(d.Title)
		if title == "" {
			res.addError("title", "Title is required!")
		} else if len(title) < minTitleLen {
			res.addError("title", fmt.Sprintf("Title must be at least %d characters long!", minTitleLen))
		}

		desc := strings.TrimSpace(d.Description)
		if desc == "" {
			res.addError("description", "Description is required!")
		} else if len(desc) < minDescriptionLen {
			res.addError("description", fmt.Sprintf("Description must be at least %d characters long!", minDescriptionLen))
		}

		if strings.TrimSpace(d.Category) == "" {
			res.addError("category", "Category is required!")
		}

		if d.Type == course.TypeSprint {
			if days, ok := parseDurationDays(d.Duration); ok && days > maxSprintDays {
				res.addError("duration", "Sprint courses should be 30 days or less!")
			}
		}

	case StepPricing:
		if d.PricingModel != course.PricingFree && d.Price <= 0 {
			res.addError("price", "Price must be greater than zero for paid courses!")
		}
		res.merge(pricingCoupling(d))

	case StepCurriculum:
		if len(d.Modules) == 0 {
			res.addError("modules", "Add at least one module before publishing!")
		}
		for i, m := range d.Modules {
			if len(m.Lessons) == 0 {
				res.addError(fmt.Sprintf("modules[%d]", i),
					fmt.Sprintf("Module %q has no lessons. Every module needs at least one lesson!", m.Title))
			}
			for j, l := range m.Lessons {
				field := fmt.Sprintf("modules[%d].lessons[%d]", i, j)
				switch l.Type {
				case course.LessonVideo:
					if strings.TrimSpace(l.VideoURL) == "" {
						res.addError(field, fmt.Sprintf("Video lesson %q is missing a video URL!", l.Title))
					}
				case course.LessonText, course.LessonAssignment:
					if strings.TrimSpace(l.Content) == "" {
						res.addError(field, fmt.Sprintf("Lesson %q is missing its content!", l.Title))
					}
				}
			}
		}
		if d.Type == course.TypeMarathon && len(d.Modules) < minMarathonModules {
			res.addError("modules",
				fmt.Sprintf("Marathon courses need at least %d modules!", minMarathonModules))
		}

	case StepSettings, StepReview:
		// nothing blocking on these steps
	}

	return res
}

// pricingCoupling enforces the one cross-field invariant that holds even
// for draft saves: membership courses are always subscription priced.
func pricingCoupling(d *CourseDraft) Result {
	var res Result
	if d.Type == course.TypeMembership && d.PricingModel != course.PricingSubscription {
		res.addError("pricing_model", "Membership courses must use subscription pricing!")
	}
	return res
}

func publishWarnings(d *CourseDraft) Result {
	var res Result
	if strings.TrimSpace(d.ThumbnailURL) == "" {
		res.addWarning("thumbnail_url", "Courses with a thumbnail get noticeably more enrollments.")
	}
	if n := d.LessonCount(); n > 0 && n < 3 {
		res.addWarning("lessons", "This course has fewer than 3 lessons.")
	}
	if !anyFeature(d.Features) {
		res.addWarning("features", "No course features selected.")
	}
	if d.OriginalPrice > 0 && d.OriginalPrice <= d.Price {
		res.addWarning("original_price", "Original price should be higher than the sale price for the discount to display.")
	}
	return res
}

func anyFeature(f course.FeatureFlags) bool {
	return f.Certificate || f.Community || f.LiveSessions ||
		f.DownloadableResources || f.Assignments || f.Quizzes
}

// parseDurationDays interprets free-text durations like "45 days",
// "4 weeks" or "2 months". Unparseable values report ok=false and are
// left to the author's judgement.
func parseDurationDays(s string) (int, bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, false
	}
	switch strings.TrimSuffix(fields[1], "s") {
	case "day":
		return n, true
	case "week":
		return n * 7, true
	case "month":
		return n * 30, true
	}
	return 0, false
}
