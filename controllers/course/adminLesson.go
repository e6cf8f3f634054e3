package controllers

import (
	"strings"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateLesson creates a new lesson inside a module
func AdminCreateLesson(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	var module courseModels.Module
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*validators.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Lesson{}).
			Where("module_id = ? AND is_deleted = ?", moduleID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	lessonType := courseModels.LessonText
	if reqData.Type != "" {
		lessonType = courseModels.LessonType(strings.ToUpper(reqData.Type))
	}

	lesson := courseModels.Lesson{
		CourseID:   courseID,
		ModuleID:   moduleID,
		Title:      reqData.Title,
		Type:       lessonType,
		Duration:   reqData.Duration,
		Content:    reqData.Content,
		VideoURL:   reqData.VideoURL,
		OrderIndex: orderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	if err := resequenceLessons(database.Database.Db, moduleID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AdminUpdateLesson updates an existing lesson
func AdminUpdateLesson(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	moduleID := c.Locals("moduleID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var lesson courseModels.Lesson
	if err := database.Database.Db.
		Where("id = ? AND module_id = ? AND is_deleted = ?", lessonID, moduleID, false).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedLessonUpdate").(*validators.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.Type != "" {
		lesson.Type = courseModels.LessonType(strings.ToUpper(reqData.Type))
	}
	if reqData.Duration != "" {
		lesson.Duration = reqData.Duration
	}
	if reqData.Content != "" {
		lesson.Content = reqData.Content
	}
	if reqData.VideoURL != "" {
		lesson.VideoURL = reqData.VideoURL
	}
	if reqData.OrderIndex > 0 {
		lesson.OrderIndex = reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	if err := resequenceLessons(database.Database.Db, moduleID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// AdminDeleteLesson soft deletes a lesson
func AdminDeleteLesson(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	moduleID := c.Locals("moduleID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var lesson courseModels.Lesson
	if err := database.Database.Db.
		Where("id = ? AND module_id = ? AND is_deleted = ?", lessonID, moduleID, false).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.IsDeleted = true
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	if err := resequenceLessons(database.Database.Db, moduleID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// AdminListLessons lists the lessons of a module in order
func AdminListLessons(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	var module courseModels.Module
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var lessons []courseModels.Lesson
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"lessons": lessons,
	})
}

// resequenceLessons rewrites order_index as a dense 1-based sequence
// within one module
func resequenceLessons(db *gorm.DB, moduleID uint) error {
	var lessons []courseModels.Lesson
	if err := db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index asc, id asc").Find(&lessons).Error; err != nil {
		return err
	}

	for i, l := range lessons {
		want := i + 1
		if l.OrderIndex == want {
			continue
		}
		if err := db.Model(&courseModels.Lesson{}).
			Where("id = ?", l.ID).Update("order_index", want).Error; err != nil {
			return err
		}
	}
	return nil
}
