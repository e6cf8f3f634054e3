package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, validators.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID("id"), controllers.AdminGetCourseDetails)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.CourseID("id"), validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.CourseID("id"), controllers.AdminDeleteCourse)

	// Lifecycle transitions run through the status gate
	adminGroup.Put("/:id/status", middleware.JWTMiddleware, validators.CourseID("id"), validators.ChangeStatus(), controllers.AdminUpdateCourseStatus)

	// Module management
	adminGroup.Post("/:id/module", middleware.JWTMiddleware, validators.CourseID("id"), validators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Get("/:id/modules", middleware.JWTMiddleware, validators.CourseID("id"), controllers.AdminListModules)
	adminGroup.Put("/:course_id/module/:module_id", middleware.JWTMiddleware, validators.CourseID("course_id"), validators.ModuleID("module_id"), validators.UpdateModule(), controllers.AdminUpdateModule)
	adminGroup.Delete("/:course_id/module/:module_id", middleware.JWTMiddleware, validators.CourseID("course_id"), validators.ModuleID("module_id"), controllers.AdminDeleteModule)

	// Lesson management
	adminGroup.Post("/:course_id/module/:module_id/lesson", middleware.JWTMiddleware, validators.CourseID("course_id"), validators.ModuleID("module_id"), validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Get("/:course_id/module/:module_id/lessons", middleware.JWTMiddleware, validators.CourseID("course_id"), validators.ModuleID("module_id"), controllers.AdminListLessons)

	lessonGroup := app.Group("/admin/module")
	lessonGroup.Put("/:module_id/lesson/:lesson_id", middleware.JWTMiddleware, validators.ModuleID("module_id"), validators.LessonID("lesson_id"), validators.UpdateLesson(), controllers.AdminUpdateLesson)
	lessonGroup.Delete("/:module_id/lesson/:lesson_id", middleware.JWTMiddleware, validators.ModuleID("module_id"), validators.LessonID("lesson_id"), controllers.AdminDeleteLesson)

	// Enrollment oversight
	adminGroup.Get("/:id/enrollments", middleware.JWTMiddleware, validators.CourseID("id"), validators.EnrollmentList(), controllers.AdminGetCourseEnrollments)

	// Downloadable resources
	resourceGroup := app.Group("/admin/resource")
	resourceGroup.Post("/create", middleware.JWTMiddleware, validators.CreateResource(), controllers.AdminCreateResource)
	resourceGroup.Put("/:id", middleware.JWTMiddleware, validators.ResourceID("id"), validators.UpdateResource(), controllers.AdminUpdateResource)
	resourceGroup.Delete("/:id", middleware.JWTMiddleware, validators.ResourceID("id"), controllers.AdminDeleteResource)
}
