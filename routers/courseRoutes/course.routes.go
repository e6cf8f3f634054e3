package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Public catalog
	courseGroup.Get("/list", controllers.ListActiveCourses)

	// Enrollment & learning
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID("id"), controllers.EnrollCourse)
	courseGroup.Get("/my", middleware.JWTMiddleware, controllers.MyEnrollments)
	courseGroup.Get("/:id/content", middleware.JWTMiddleware, validators.CourseID("id"), controllers.GetCourseContent)
	courseGroup.Put("/:id/progress", middleware.JWTMiddleware, validators.CourseID("id"), controllers.UpdateProgress)
	courseGroup.Post("/:id/certificate", middleware.JWTMiddleware, validators.CourseID("id"), controllers.RequestCertificate)
	courseGroup.Get("/:id/resources", middleware.JWTMiddleware, validators.CourseID("id"), controllers.ListCourseResources)
}
