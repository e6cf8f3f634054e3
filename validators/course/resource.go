package courseValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ResourceRequest is the create/update body for a downloadable resource
type ResourceRequest struct {
	Title     string `json:"title"`
	FileURL   string `json:"file_url" validate:"omitempty,url"`
	FileType  string `json:"file_type"`
	SizeBytes int64  `json:"size_bytes"`
	CourseID  *uint  `json:"course_id"`
}

func CreateResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResourceRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Resource title is required!"
		}
		if strings.TrimSpace(reqData.FileURL) == "" {
			errors["file_url"] = "File URL is required!"
		} else if err := validate.Var(reqData.FileURL, "url"); err != nil {
			errors["file_url"] = "File URL must be a valid URL!"
		}
		if reqData.SizeBytes < 0 {
			errors["size_bytes"] = "Size cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResource", reqData)
		return c.Next()
	}
}

func UpdateResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResourceRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.FileURL != "" {
			if err := validate.Var(reqData.FileURL, "url"); err != nil {
				errors["file_url"] = "File URL must be a valid URL!"
			}
		}
		if reqData.SizeBytes < 0 {
			errors["size_bytes"] = "Size cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResourceUpdate", reqData)
		return c.Next()
	}
}

// ResourceID parses and validates the GUID path parameter
func ResourceID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params(param))
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid resource id!", nil)
		}
		c.Locals("resourceID", id)
		return c.Next()
	}
}
