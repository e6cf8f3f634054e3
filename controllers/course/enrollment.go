package controllers

import (
	"fmt"
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EnrollCourse enrolls the requesting user into an active course.
// Inactive courses deny new enrollments; existing enrollments are never
// touched by unpublishing.
func EnrollCourse(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	if course.Status != courseModels.StatusActive {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This course is not open for enrollment!", nil)
	}

	var existing courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", existing)
	}

	if course.EnrollmentLimit > 0 {
		var enrolled int64
		database.Database.Db.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&enrolled)
		if enrolled >= int64(course.EnrollmentLimit) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This course has reached its enrollment limit!", nil)
		}
	}

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).Count(&totalLessons)

	enrollment := courseModels.Enrollment{
		UserID:       user.ID,
		CourseID:     courseID,
		Status:       courseModels.EnrollmentEnrolled,
		TotalLessons: int(totalLessons),
	}

	if course.AccessType == "LIMITED" && course.AccessDuration > 0 {
		expires := time.Now().AddDate(0, 0, course.AccessDuration)
		enrollment.ExpiresAt = &expires
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	if course.Automation.Data().WelcomeEmail {
		go utils.SendWelcomeEmail(user.Email, user.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// MyEnrollments lists the requesting user's enrollments with course info
func MyEnrollments(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if user == nil {
		return err
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		Course courseModels.Course `json:"course"`
	}

	out := make([]EnrollmentWithCourse, 0, len(enrollments))
	for _, e := range enrollments {
		var course courseModels.Course
		if err := database.Database.Db.
			Where("id = ? AND is_deleted = ?", e.CourseID, false).
			First(&course).Error; err != nil {
			continue
		}
		out = append(out, EnrollmentWithCourse{Enrollment: e, Course: course})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": out,
	})
}

// UpdateProgress records lesson completion counts for the requesting user
// and flips the enrollment to COMPLETED at 100%
func UpdateProgress(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status == courseModels.EnrollmentExpired {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Course access has expired!", nil)
	}

	var reqData struct {
		CompletedLessons int `json:"completed_lessons"`
	}
	if err := c.BodyParser(&reqData); err != nil || reqData.CompletedLessons < 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.CompletedLessons > enrollment.TotalLessons {
		reqData.CompletedLessons = enrollment.TotalLessons
	}

	enrollment.CompletedLessons = reqData.CompletedLessons
	if enrollment.TotalLessons > 0 {
		enrollment.Progress = float64(enrollment.CompletedLessons) / float64(enrollment.TotalLessons) * 100
	}

	switch {
	case enrollment.TotalLessons > 0 && enrollment.CompletedLessons == enrollment.TotalLessons:
		if enrollment.Status != courseModels.EnrollmentCompleted {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
		enrollment.Status = courseModels.EnrollmentCompleted
	case enrollment.CompletedLessons > 0:
		enrollment.Status = courseModels.EnrollmentInProgress
	}

	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// RequestCertificate issues a completion certificate for a finished course
func RequestCertificate(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	if !course.Features.Data().Certificate {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This course does not offer certificates!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status != courseModels.EnrollmentCompleted {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the course to request a certificate!", nil)
	}

	var existing courseModels.Certificate
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", existing)
	}

	certificate := courseModels.Certificate{
		UserID:            user.ID,
		CourseID:          courseID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: fmt.Sprintf("CERT-%s", uuid.NewString()),
		IssuedAt:          time.Now(),
	}

	if err := database.Database.Db.Create(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	if course.Automation.Data().CertificateEmail {
		go utils.SendCertificateEmail(user.Email, user.Name, course.Title, certificate.CertificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", certificate)
}

// AdminGetCourseEnrollments lists enrollments of a course for admin
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*validators.ListRequest)

	page := 1
	limit := 10
	if ok && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if ok && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	var enrollments []courseModels.Enrollment
	var total int64

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false)
	db.Count(&total)

	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
