package authoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	course "lms/models/course"
)

// publishableDraft returns a draft that passes the full publish rule set
// with no warnings
func publishableDraft() *CourseDraft {
	d := NewCourseDraft()
	d.ID = ptr(1)
	d.Title = "Practical Sourdough Baking"
	d.Description = strings.Repeat("A thorough walk through every stage of sourdough baking. ", 2)
	d.Category = "Cooking"
	d.ThumbnailURL = "https://cdn.example.com/sourdough.png"
	d.Features = course.FeatureFlags{Certificate: true}
	d.Modules = []ModuleDraft{
		{
			ID:    ptr(10),
			Title: "Starters",
			Lessons: []LessonDraft{
				{ID: ptr(100), Title: "Feeding schedules", Type: course.LessonText, Content: "Feed twice daily."},
				{ID: ptr(101), Title: "Starter tour", Type: course.LessonVideo, VideoURL: "https://cdn.example.com/tour.mp4"},
				{ID: ptr(102), Title: "Hydration quiz", Type: course.LessonQuiz},
			},
		},
	}
	d.normalizeOrder()
	return d
}

func fieldsOf(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Field
	}
	return out
}

func TestValidateEmptyTitleBlocksPublish(t *testing.T) {
	d := publishableDraft()
	d.Title = ""

	res := Validate(d, course.StatusActive)
	assert.Contains(t, fieldsOf(res.Errors), "title")

	_, err := RequestTransition(d, course.StatusActive, true)
	var denied *TransitionError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, fieldsOf(denied.Issues), "title")
}

func TestValidatePaidCourseNeedsPrice(t *testing.T) {
	d := publishableDraft()
	d.PricingModel = course.PricingOneTime
	d.Price = 0

	res := Validate(d, course.StatusActive)
	assert.Contains(t, fieldsOf(res.Errors), "price")

	d.Price = 499
	res = Validate(d, course.StatusActive)
	assert.NotContains(t, fieldsOf(res.Errors), "price")
}

func TestValidateFreeCourseSkipsPrice(t *testing.T) {
	d := publishableDraft()
	d.PricingModel = course.PricingFree
	d.Price = 0

	res := Validate(d, course.StatusActive)
	assert.False(t, res.HasErrors())
}

func TestValidateModuleWithoutLessons(t *testing.T) {
	d := publishableDraft()
	d.Modules = append(d.Modules, ModuleDraft{ID: ptr(11), Title: "Shaping"})
	d.normalizeOrder()

	res := Validate(d, course.StatusActive)
	require.True(t, res.HasErrors())
	assert.Contains(t, fieldsOf(res.Errors), "modules[1]")
	assert.Contains(t, res.Errors[0].Message, "Shaping")
	assert.Equal(t, StepCurriculum, StepFor(res.Errors[0].Field))
}

func TestValidateIsIdempotent(t *testing.T) {
	d := publishableDraft()
	d.Title = "Hi"
	d.ThumbnailURL = ""

	first := Validate(d, course.StatusActive)
	second := Validate(d, course.StatusActive)
	assert.Equal(t, first, second)
}

func TestMembershipForcesSubscriptionPricing(t *testing.T) {
	d := publishableDraft()
	d.Type = course.TypeMembership
	d.PricingModel = course.PricingOneTime
	d.Price = 100

	res := Validate(d, course.StatusActive)
	assert.Contains(t, fieldsOf(res.Errors), "pricing_model")

	// The coupling holds for plain draft saves too
	res = Validate(d, course.StatusDraft)
	assert.Contains(t, fieldsOf(res.Errors), "pricing_model")

	d.PricingModel = course.PricingSubscription
	res = Validate(d, course.StatusActive)
	assert.NotContains(t, fieldsOf(res.Errors), "pricing_model")
}

func TestSprintDurationLimit(t *testing.T) {
	d := publishableDraft()
	d.Type = course.TypeSprint
	d.Duration = "45 days"

	res := ValidateStep(d, StepBasicInfo)
	require.Contains(t, fieldsOf(res.Errors), "duration")
	assert.Equal(t, "Sprint courses should be 30 days or less!", res.Errors[0].Message)

	d.Duration = "4 weeks"
	res = ValidateStep(d, StepBasicInfo)
	assert.NotContains(t, fieldsOf(res.Errors), "duration")

	// Unparseable durations are left alone
	d.Duration = "as long as it takes"
	res = ValidateStep(d, StepBasicInfo)
	assert.NotContains(t, fieldsOf(res.Errors), "duration")
}

func TestMarathonNeedsThreeModules(t *testing.T) {
	d := publishableDraft()
	d.Type = course.TypeMarathon

	res := Validate(d, course.StatusActive)
	assert.Contains(t, fieldsOf(res.Errors), "modules")
}

func TestVideoLessonNeedsURL(t *testing.T) {
	d := publishableDraft()
	d.Modules[0].Lessons[1].VideoURL = ""

	res := Validate(d, course.StatusActive)
	assert.Contains(t, fieldsOf(res.Errors), "modules[0].lessons[1]")
}

func TestPublishWarningsAreNonBlocking(t *testing.T) {
	d := publishableDraft()
	d.ThumbnailURL = ""
	d.Features = course.FeatureFlags{}
	d.OriginalPrice = 10
	d.Price = 20

	res := Validate(d, course.StatusActive)
	assert.False(t, res.HasErrors())
	warned := fieldsOf(res.Warnings)
	assert.Contains(t, warned, "thumbnail_url")
	assert.Contains(t, warned, "features")
	assert.Contains(t, warned, "original_price")
}

func TestDraftSaveIsPermissive(t *testing.T) {
	d := NewCourseDraft()
	d.Title = "x" // one character is enough for a draft

	res := Validate(d, course.StatusDraft)
	assert.False(t, res.HasErrors())

	// but not for publishing
	res = Validate(d, course.StatusActive)
	assert.True(t, res.HasErrors())
}

func TestParseDurationDays(t *testing.T) {
	cases := []struct {
		in   string
		days int
		ok   bool
	}{
		{"30 days", 30, true},
		{"1 day", 1, true},
		{"4 weeks", 28, true},
		{"2 months", 60, true},
		{"6 Weeks", 42, true},
		{"self paced", 0, false},
		{"", 0, false},
		{"-3 days", 0, false},
	}
	for _, tc := range cases {
		days, ok := parseDurationDays(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if ok {
			assert.Equal(t, tc.days, days, tc.in)
		}
	}
}

func TestErrorMapKeepsFirstMessagePerField(t *testing.T) {
	res := Result{Errors: []Issue{
		{Field: "title", Message: "first"},
		{Field: "title", Message: "second"},
		{Field: "price", Message: "third"},
	}}
	m := res.ErrorMap()
	assert.Equal(t, "first", m["title"])
	assert.Equal(t, "third", m["price"])
}
