package controllers

import (
	"errors"
	"strings"

	"lms/authoring"
	"lms/config"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminCreateCourse creates a new draft course
func AdminCreateCourse(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCourse").(*validators.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseFromRequest(reqData)
	course.Status = courseModels.StatusDraft

	// Cross-field invariants hold even for draft saves
	draft := authoring.DraftFromCourse(course, nil, nil)
	draft.ID = nil
	if res := authoring.Validate(draft, courseModels.StatusDraft); res.HasErrors() {
		return middleware.ValidationErrorResponse(c, res.ErrorMap())
	}

	if err := database.Database.Db.Create(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates course-level fields of an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*validators.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	applyCourseRequest(course, reqData)

	draft := authoring.DraftFromCourse(course, nil, nil)
	if res := authoring.Validate(draft, courseModels.StatusDraft); res.HasErrors() {
		return middleware.ValidationErrorResponse(c, res.ErrorMap())
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse soft deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminGetAllCourses lists all courses for admin with pagination
func AdminGetAllCourses(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedAdminList").(*validators.ListRequest)

	page := 1
	limit := 10
	if ok && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if ok && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	var courses []courseModels.Course
	var total int64

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if ok && reqData.Status != "" {
		db = db.Where("status = ?", strings.ToUpper(reqData.Status))
	}
	db.Count(&total)

	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminGetCourseDetails gets a single course with its module/lesson tree
func AdminGetCourseDetails(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	modules, lessons, err := loadCourseTree(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	var enrollmentCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&enrollmentCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":           course,
		"modules":          nestLessons(modules, lessons),
		"enrollment_count": enrollmentCount,
	})
}

// AdminUpdateCourseStatus runs the requested lifecycle transition through
// the gate: the full publish validator for activation edges, confirmation
// for destructive ones. A denial changes nothing.
func AdminUpdateCourseStatus(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedStatusChange").(*validators.ChangeStatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	target := courseModels.Status(reqData.Status)

	modules, lessons, err := loadCourseTree(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	draft := authoring.DraftFromCourse(course, modules, lessons)
	res, gateErr := authoring.RequestTransition(draft, target, reqData.Confirm)
	if gateErr != nil {
		if errors.Is(gateErr, authoring.ErrConfirmationRequired) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Confirmation required!", fiber.Map{
				"warnings":              res.Warnings,
				"confirmation_required": true,
			})
		}
		var denied *authoring.TransitionError
		if errors.As(gateErr, &denied) {
			if len(denied.Issues) > 0 {
				return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Course is not ready to publish!", fiber.Map{
					"errors":   denied.Issues,
					"warnings": res.Warnings,
				})
			}
			return middleware.JsonResponse(c, fiber.StatusConflict, false, denied.Error(), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change status!", nil)
	}

	course.Status = target
	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course status updated successfully!", fiber.Map{
		"course":   course,
		"warnings": res.Warnings,
	})
}

// courseFromRequest builds a new course row with platform defaults
func courseFromRequest(reqData *validators.CreateCourseRequest) *courseModels.Course {
	course := &courseModels.Course{
		Title:            reqData.Title,
		Description:      reqData.Description,
		ShortDescription: reqData.ShortDescription,
		Category:         reqData.Category,
		Level:            reqData.Level,
		Language:         reqData.Language,
		Duration:         reqData.Duration,
		ThumbnailURL:     reqData.ThumbnailURL,
		Price:            reqData.Price,
		OriginalPrice:    reqData.OriginalPrice,
		Currency:         reqData.Currency,

		SubscriptionPeriod: reqData.SubscriptionPeriod,
		AccessType:         reqData.AccessType,
		AccessDuration:     reqData.AccessDuration,
		EnrollmentLimit:    reqData.EnrollmentLimit,
	}

	if reqData.DripEnabled != nil {
		course.DripEnabled = *reqData.DripEnabled
	}

	course.Type = courseModels.TypeCustom
	if reqData.CourseType != "" {
		course.Type = courseModels.Type(strings.ToUpper(reqData.CourseType))
	}

	course.PricingModel = courseModels.PricingFree
	if reqData.PricingModel != "" {
		course.PricingModel = courseModels.PricingModel(strings.ToUpper(reqData.PricingModel))
	}
	// Membership is always subscription priced
	if course.Type == courseModels.TypeMembership {
		course.PricingModel = courseModels.PricingSubscription
	}

	if course.Currency == "" {
		course.Currency = config.AppConfig.DefaultCurrency
	}

	if reqData.Features != nil {
		course.Features = datatypes.NewJSONType(*reqData.Features)
	}
	automation := courseModels.DefaultAutomation()
	if reqData.Automation != nil {
		automation = *reqData.Automation
	}
	course.Automation = datatypes.NewJSONType(automation)

	if reqData.DripSchedule != nil {
		course.DripSchedule = datatypes.NewJSONType(reqData.DripSchedule)
	}

	return course
}

// applyCourseRequest copies the provided fields onto an existing course.
// String zero values mean "unchanged", matching the admin UI's sparse
// update payloads.
func applyCourseRequest(course *courseModels.Course, reqData *validators.CreateCourseRequest) {
	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.ShortDescription != "" {
		course.ShortDescription = reqData.ShortDescription
	}
	if reqData.Category != "" {
		course.Category = reqData.Category
	}
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	if reqData.Language != "" {
		course.Language = reqData.Language
	}
	if reqData.Duration != "" {
		course.Duration = reqData.Duration
	}
	if reqData.CourseType != "" {
		course.Type = courseModels.Type(strings.ToUpper(reqData.CourseType))
	}
	if reqData.ThumbnailURL != "" {
		course.ThumbnailURL = reqData.ThumbnailURL
	}
	if reqData.Price > 0 {
		course.Price = reqData.Price
	}
	if reqData.OriginalPrice > 0 {
		course.OriginalPrice = reqData.OriginalPrice
	}
	if reqData.PricingModel != "" {
		course.PricingModel = courseModels.PricingModel(strings.ToUpper(reqData.PricingModel))
	}
	if course.Type == courseModels.TypeMembership {
		course.PricingModel = courseModels.PricingSubscription
	}
	if reqData.Currency != "" {
		course.Currency = reqData.Currency
	}
	if reqData.SubscriptionPeriod != "" {
		course.SubscriptionPeriod = reqData.SubscriptionPeriod
	}
	if reqData.AccessType != "" {
		course.AccessType = reqData.AccessType
	}
	if reqData.AccessDuration > 0 {
		course.AccessDuration = reqData.AccessDuration
	}
	if reqData.EnrollmentLimit > 0 {
		course.EnrollmentLimit = reqData.EnrollmentLimit
	}
	if reqData.Features != nil {
		course.Features = datatypes.NewJSONType(*reqData.Features)
	}
	if reqData.Automation != nil {
		course.Automation = datatypes.NewJSONType(*reqData.Automation)
	}
	if reqData.DripEnabled != nil {
		course.DripEnabled = *reqData.DripEnabled
	}
	if reqData.DripSchedule != nil {
		course.DripSchedule = datatypes.NewJSONType(reqData.DripSchedule)
	}
}
