package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminCreateResource registers a downloadable resource
func AdminCreateResource(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedResource").(*validators.ResourceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	resource := models.Resource{
		Title:     reqData.Title,
		FileURL:   reqData.FileURL,
		FileType:  reqData.FileType,
		SizeBytes: reqData.SizeBytes,
		CourseID:  reqData.CourseID,
	}

	if err := database.Database.Db.Create(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Resource created successfully!", resource)
}

// AdminUpdateResource updates a resource's metadata
func AdminUpdateResource(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	resourceID := c.Locals("resourceID").(uuid.UUID)

	var resource models.Resource
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", resourceID, false).
		First(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	}

	reqData, ok := c.Locals("validatedResourceUpdate").(*validators.ResourceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		resource.Title = reqData.Title
	}
	if reqData.FileURL != "" {
		resource.FileURL = reqData.FileURL
	}
	if reqData.FileType != "" {
		resource.FileType = reqData.FileType
	}
	if reqData.SizeBytes > 0 {
		resource.SizeBytes = reqData.SizeBytes
	}
	if reqData.CourseID != nil {
		resource.CourseID = reqData.CourseID
	}

	if err := database.Database.Db.Save(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource updated successfully!", resource)
}

// AdminDeleteResource soft deletes a resource
func AdminDeleteResource(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	resourceID := c.Locals("resourceID").(uuid.UUID)

	var resource models.Resource
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = ?", resourceID, false).
		First(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	}

	resource.IsDeleted = true
	if err := database.Database.Db.Save(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource deleted successfully!", nil)
}

// ListCourseResources lists resources attached to a course, available to
// enrolled users when the course offers downloadable resources
func ListCourseResources(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)

	course, err := findCourse(c, courseID)
	if course == nil {
		return err
	}

	if !course.Features.Data().DownloadableResources {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This course has no downloadable resources!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in this course to access its resources!", nil)
	}

	var resources []models.Resource
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at desc").Find(&resources).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch resources!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resources fetched successfully!", fiber.Map{
		"resources": resources,
	})
}
