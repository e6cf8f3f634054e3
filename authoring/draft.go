package authoring

import (
	"sort"

	course "lms/models/course"
)

// LessonDraft is the authoring-time view of a lesson. A nil ID means the
// lesson has not been persisted yet.
type LessonDraft struct {
	ID       *uint             `json:"id,omitempty"`
	Title    string            `json:"title"`
	Type     course.LessonType `json:"type"`
	Duration string            `json:"duration"`
	Content  string            `json:"content"`
	VideoURL string            `json:"video_url"`
	Order    int               `json:"order"`
}

// ModuleDraft is the authoring-time view of a module and its lessons
type ModuleDraft struct {
	ID          *uint         `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Order       int           `json:"order"`
	Lessons     []LessonDraft `json:"lessons"`
}

// CourseDraft holds the full authoring state of a course. It is pure data
// shared between the wizard, the validator and the sync layer.
type CourseDraft struct {
	ID               *uint  `json:"id,omitempty"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Category         string `json:"category"`
	Level            string `json:"level"`
	Language         string `json:"language"`
	Duration         string `json:"duration"`

	Type          course.Type         `json:"course_type"`
	Status        course.Status       `json:"status"`
	ThumbnailURL  string              `json:"thumbnail_url"`
	Price         float64             `json:"price"`
	OriginalPrice float64             `json:"original_price"`
	PricingModel  course.PricingModel `json:"pricing_model"`
	Currency      string              `json:"currency"`

	SubscriptionPeriod string `json:"subscription_period"`
	AccessType         string `json:"access_type"`
	AccessDuration     int    `json:"access_duration"`
	EnrollmentLimit    int    `json:"enrollment_limit"`

	Features   course.FeatureFlags    `json:"features"`
	Automation course.AutomationFlags `json:"automation"`

	DripEnabled  bool              `json:"drip_enabled"`
	DripSchedule []course.DripRule `json:"drip_schedule"`

	Modules []ModuleDraft `json:"modules"`
}

// NewCourseDraft returns an empty draft with the platform defaults, so a
// blank wizard is immediately usable.
func NewCourseDraft() *CourseDraft {
	return &CourseDraft{
		Status:       course.StatusDraft,
		Type:         course.TypeCustom,
		PricingModel: course.PricingFree,
		Currency:     "PHP",
		Automation:   course.DefaultAutomation(),
	}
}

// DraftFromCourse hydrates a draft from a persisted aggregate. Lessons are
// grouped under their module and both levels are ordered by OrderIndex.
func DraftFromCourse(c *course.Course, modules []course.Module, lessons []course.Lesson) *CourseDraft {
	d := &CourseDraft{
		ID:               ptr(c.ID),
		Title:            c.Title,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Category:         c.Category,
		Level:            c.Level,
		Language:         c.Language,
		Duration:         c.Duration,
		Type:             c.Type,
		Status:           c.Status,
		ThumbnailURL:     c.ThumbnailURL,
		Price:            c.Price,
		OriginalPrice:    c.OriginalPrice,
		PricingModel:     c.PricingModel,
		Currency:         c.Currency,

		SubscriptionPeriod: c.SubscriptionPeriod,
		AccessType:         c.AccessType,
		AccessDuration:     c.AccessDuration,
		EnrollmentLimit:    c.EnrollmentLimit,

		Features:   c.Features.Data(),
		Automation: c.Automation.Data(),

		DripEnabled:  c.DripEnabled,
		DripSchedule: c.DripSchedule.Data(),
	}

	byModule := make(map[uint][]LessonDraft)
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], LessonDraft{
			ID:       ptr(l.ID),
			Title:    l.Title,
			Type:     l.Type,
			Duration: l.Duration,
			Content:  l.Content,
			VideoURL: l.VideoURL,
			Order:    l.OrderIndex,
		})
	}

	sorted := make([]course.Module, len(modules))
	copy(sorted, modules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	for _, m := range sorted {
		ls := byModule[m.ID]
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].Order < ls[j].Order })
		d.Modules = append(d.Modules, ModuleDraft{
			ID:          ptr(m.ID),
			Title:       m.Title,
			Description: m.Description,
			Order:       m.OrderIndex,
			Lessons:     ls,
		})
	}

	d.normalizeOrder()
	return d
}

// Clone returns a deep copy, used for the last-known-persisted snapshot
func (d *CourseDraft) Clone() *CourseDraft {
	out := *d
	out.ID = clonePtr(d.ID)
	out.DripSchedule = append([]course.DripRule(nil), d.DripSchedule...)
	out.Modules = make([]ModuleDraft, len(d.Modules))
	for i, m := range d.Modules {
		cm := m
		cm.ID = clonePtr(m.ID)
		cm.Lessons = make([]LessonDraft, len(m.Lessons))
		for j, l := range m.Lessons {
			cl := l
			cl.ID = clonePtr(l.ID)
			cm.Lessons[j] = cl
		}
		out.Modules[i] = cm
	}
	return &out
}

// normalizeOrder reassigns dense 1-based order values to modules and to
// each module's lessons. Called after every structural mutation.
func (d *CourseDraft) normalizeOrder() {
	for i := range d.Modules {
		d.Modules[i].Order = i + 1
		for j := range d.Modules[i].Lessons {
			d.Modules[i].Lessons[j].Order = j + 1
		}
	}
}

// LessonCount returns the total number of lessons across all modules
func (d *CourseDraft) LessonCount() int {
	n := 0
	for _, m := range d.Modules {
		n += len(m.Lessons)
	}
	return n
}

func ptr(v uint) *uint { return &v }

func clonePtr(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
