package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// ListActiveCourses is the public catalog: active courses only
func ListActiveCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("status = ? AND is_deleted = ?", courseModels.StatusActive, false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetCourseContent returns the module/lesson tree visible to an enrolled
// user. With drip enabled, modules unlock by days since enrollment.
func GetCourseContent(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in this course to see its content!", nil)
	}

	if enrollment.Status == courseModels.EnrollmentExpired {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course access has expired!", nil)
	}

	modules, lessons, err := loadCourseTree(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	nested := nestLessons(modules, lessons)

	if course.DripEnabled {
		nested = applyDrip(nested, course.DripSchedule.Data(), enrollment.CreatedAt)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"course":  course,
		"modules": nested,
	})
}

// applyDrip hides lesson payloads of modules that have not released yet.
// Release offsets count days from the enrollment date; modules without a
// rule release immediately.
func applyDrip(modules []ModuleWithLessons, rules []courseModels.DripRule, enrolledAt time.Time) []ModuleWithLessons {
	offsetFor := make(map[int]int, len(rules))
	for _, r := range rules {
		offsetFor[r.ModuleOrder] = r.OffsetDays
	}

	now := time.Now()
	out := make([]ModuleWithLessons, 0, len(modules))
	for _, m := range modules {
		offset, ok := offsetFor[m.OrderIndex]
		if !ok || offset <= 0 {
			out = append(out, m)
			continue
		}
		unlocksAt := enrolledAt.AddDate(0, 0, offset)
		if !now.Before(unlocksAt) {
			out = append(out, m)
			continue
		}
		locked := m
		locked.Lessons = nil
		out = append(out, locked)
	}
	return out
}
