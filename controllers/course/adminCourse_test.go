package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	courseModels "lms/models/course"
	validators "lms/validators/course"
)

func TestApplyCourseRequestSparsePayloadKeepsDrip(t *testing.T) {
	course := &courseModels.Course{Title: "Live course", DripEnabled: true}

	// a payload that omits drip_enabled must not turn drip off
	applyCourseRequest(course, &validators.CreateCourseRequest{Description: "Updated description"})

	assert.True(t, course.DripEnabled)
	assert.Equal(t, "Live course", course.Title)
	assert.Equal(t, "Updated description", course.Description)
}

func TestApplyCourseRequestTogglesDripExplicitly(t *testing.T) {
	off := false
	on := true

	course := &courseModels.Course{DripEnabled: true}
	applyCourseRequest(course, &validators.CreateCourseRequest{DripEnabled: &off})
	assert.False(t, course.DripEnabled)

	applyCourseRequest(course, &validators.CreateCourseRequest{DripEnabled: &on})
	assert.True(t, course.DripEnabled)
}

func TestCourseFromRequestDripDefaultsOff(t *testing.T) {
	course := courseFromRequest(&validators.CreateCourseRequest{Title: "New course"})
	assert.False(t, course.DripEnabled)

	on := true
	course = courseFromRequest(&validators.CreateCourseRequest{Title: "New course", DripEnabled: &on})
	assert.True(t, course.DripEnabled)
}
