package courseValidator

import (
	"lms/middleware"
	courseModels "lms/models/course"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LessonRequest is the create/update body for a lesson
type LessonRequest struct {
	Title      string `json:"title"`
	Type       string `json:"type"`
	Duration   string `json:"duration"`
	Content    string `json:"content"`
	VideoURL   string `json:"video_url" validate:"omitempty,url"`
	OrderIndex int    `json:"order_index"`
}

func lessonErrors(reqData *LessonRequest, requireTitle bool) map[string]string {
	errors := make(map[string]string)

	if requireTitle && strings.TrimSpace(reqData.Title) == "" {
		errors["title"] = "Lesson title is required!"
	}

	if reqData.Type != "" {
		switch courseModels.LessonType(strings.ToUpper(reqData.Type)) {
		case courseModels.LessonVideo, courseModels.LessonText, courseModels.LessonQuiz, courseModels.LessonAssignment:
		default:
			errors["type"] = "Unknown lesson type!"
		}
	}

	if reqData.VideoURL != "" {
		if err := validate.Var(reqData.VideoURL, "url"); err != nil {
			errors["video_url"] = "Video URL must be a valid URL!"
		}
	}

	if reqData.OrderIndex < 0 {
		errors["order_index"] = "Order index cannot be negative!"
	}

	return errors
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := lessonErrors(reqData, true); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := lessonErrors(reqData, false); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

// LessonID parses and validates the lesson id path parameter
func LessonID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params(param))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
		}
		c.Locals("lessonID", uint(id))
		return c.Next()
	}
}
