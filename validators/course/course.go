package courseValidator

import (
	"lms/middleware"
	courseModels "lms/models/course"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateCourseRequest carries every author-editable course field. Create
// accepts sparse drafts; publish-readiness is checked by the authoring
// validator, not here.
type CreateCourseRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"short_description"`
	Category         string  `json:"category"`
	Level            string  `json:"level"`
	Language         string  `json:"language"`
	Duration         string  `json:"duration"`
	CourseType       string  `json:"course_type"`
	ThumbnailURL     string  `json:"thumbnail_url" validate:"omitempty,url"`
	Price            float64 `json:"price" validate:"gte=0"`
	OriginalPrice    float64 `json:"original_price" validate:"gte=0"`
	PricingModel     string  `json:"pricing_model"`
	Currency         string  `json:"currency" validate:"omitempty,len=3"`

	SubscriptionPeriod string `json:"subscription_period"`
	AccessType         string `json:"access_type"`
	AccessDuration     int    `json:"access_duration" validate:"gte=0"`
	EnrollmentLimit    int    `json:"enrollment_limit" validate:"gte=0"`

	Features   *courseModels.FeatureFlags    `json:"features"`
	Automation *courseModels.AutomationFlags `json:"automation"`

	DripEnabled  *bool                   `json:"drip_enabled"`
	DripSchedule []courseModels.DripRule `json:"drip_schedule"`
}

// ChangeStatusRequest is the body of the status transition endpoint
type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Confirm bool   `json:"confirm"`
}

// ListRequest is shared pagination input with an optional status filter
type ListRequest struct {
	Page   *int   `json:"page"`
	Limit  *int   `json:"limit"`
	Status string `json:"status"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := courseFieldErrors(reqData)

		// A new draft needs at least a title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := courseFieldErrors(reqData)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func ChangeStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangeStatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		if reqData.Status == "" {
			errors["status"] = "Status is required!"
		} else if !courseModels.ValidStatus(courseModels.Status(reqData.Status)) {
			errors["status"] = "Unknown status value!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStatusChange", reqData)
		return c.Next()
	}
}

func AdminList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListRequest)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if reqData.Status != "" && !courseModels.ValidStatus(courseModels.Status(strings.ToUpper(reqData.Status))) {
			errors["status"] = "Unknown status value!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminList", reqData)
		return c.Next()
	}
}

// CourseID parses and validates the course id path parameter
func CourseID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params(param))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}
		c.Locals("courseID", uint(id))
		return c.Next()
	}
}

// courseFieldErrors applies the shared tag + enum checks for create/update
func courseFieldErrors(reqData *CreateCourseRequest) map[string]string {
	errors := make(map[string]string)

	if err := validate.Struct(reqData); err != nil {
		if invalid, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range invalid {
				switch fe.Field() {
				case "ThumbnailURL":
					errors["thumbnail_url"] = "Thumbnail must be a valid URL!"
				case "Price":
					errors["price"] = "Price cannot be negative!"
				case "OriginalPrice":
					errors["original_price"] = "Original price cannot be negative!"
				case "Currency":
					errors["currency"] = "Currency must be a 3-letter code!"
				case "AccessDuration":
					errors["access_duration"] = "Access duration cannot be negative!"
				case "EnrollmentLimit":
					errors["enrollment_limit"] = "Enrollment limit cannot be negative!"
				}
			}
		}
	}

	if reqData.CourseType != "" {
		switch courseModels.Type(strings.ToUpper(reqData.CourseType)) {
		case courseModels.TypeSprint, courseModels.TypeMarathon, courseModels.TypeMembership, courseModels.TypeCustom:
		default:
			errors["course_type"] = "Unknown course type!"
		}
	}

	if reqData.PricingModel != "" {
		switch courseModels.PricingModel(strings.ToUpper(reqData.PricingModel)) {
		case courseModels.PricingFree, courseModels.PricingOneTime, courseModels.PricingSubscription:
		default:
			errors["pricing_model"] = "Unknown pricing model!"
		}
	}

	return errors
}
