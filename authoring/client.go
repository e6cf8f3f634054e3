package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	course "lms/models/course"
)

// Client implements CourseAPI over the course service's REST surface
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the given base URL. The bearer token is
// the authoring session's JWT; the timeout bounds every save call so a
// hung request surfaces as a retryable failure instead of a stuck wizard.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json")
	return &Client{http: hc}
}

// envelope matches middleware.JsonResponse
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// idPayload picks the gorm surrogate key out of a created entity
type idPayload struct {
	ID uint `json:"ID"`
}

type moduleDetail struct {
	course.Module
	Lessons []course.Lesson `json:"lessons"`
}

type courseDetail struct {
	Course  course.Course  `json:"course"`
	Modules []moduleDetail `json:"modules"`
}

func (c *Client) GetCourse(ctx context.Context, id uint) (*CourseDraft, error) {
	var detail courseDetail
	err := c.call(ctx, resty.MethodGet, fmt.Sprintf("/admin/course/%d", id), nil, &detail)
	if err != nil {
		return nil, err
	}

	modules := make([]course.Module, 0, len(detail.Modules))
	var lessons []course.Lesson
	for _, m := range detail.Modules {
		modules = append(modules, m.Module)
		for _, l := range m.Lessons {
			l.ModuleID = m.Module.ID
			lessons = append(lessons, l)
		}
	}
	return DraftFromCourse(&detail.Course, modules, lessons), nil
}

func (c *Client) CreateCourse(ctx context.Context, d *CourseDraft) (uint, error) {
	var created idPayload
	err := c.call(ctx, resty.MethodPost, "/admin/course/create", courseBody(d), &created)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) UpdateCourse(ctx context.Context, d *CourseDraft) error {
	if d.ID == nil {
		return fmt.Errorf("course has no id")
	}
	return c.call(ctx, resty.MethodPut, fmt.Sprintf("/admin/course/%d", *d.ID), courseBody(d), nil)
}

func (c *Client) UpdateStatus(ctx context.Context, id uint, change StatusChange) error {
	return c.call(ctx, resty.MethodPut, fmt.Sprintf("/admin/course/%d/status", id), change, nil)
}

func (c *Client) CreateModule(ctx context.Context, courseID uint, m *ModuleDraft) (uint, error) {
	var created idPayload
	err := c.call(ctx, resty.MethodPost, fmt.Sprintf("/admin/course/%d/module", courseID), moduleBody(m), &created)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) UpdateModule(ctx context.Context, courseID uint, m *ModuleDraft) error {
	if m.ID == nil {
		return fmt.Errorf("module has no id")
	}
	url := fmt.Sprintf("/admin/course/%d/module/%d", courseID, *m.ID)
	return c.call(ctx, resty.MethodPut, url, moduleBody(m), nil)
}

func (c *Client) DeleteModule(ctx context.Context, courseID, moduleID uint) error {
	url := fmt.Sprintf("/admin/course/%d/module/%d", courseID, moduleID)
	return c.call(ctx, resty.MethodDelete, url, nil, nil)
}

func (c *Client) CreateLesson(ctx context.Context, courseID, moduleID uint, l *LessonDraft) (uint, error) {
	var created idPayload
	url := fmt.Sprintf("/admin/course/%d/module/%d/lesson", courseID, moduleID)
	err := c.call(ctx, resty.MethodPost, url, lessonBody(l), &created)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (c *Client) UpdateLesson(ctx context.Context, moduleID uint, l *LessonDraft) error {
	if l.ID == nil {
		return fmt.Errorf("lesson has no id")
	}
	url := fmt.Sprintf("/admin/module/%d/lesson/%d", moduleID, *l.ID)
	return c.call(ctx, resty.MethodPut, url, lessonBody(l), nil)
}

func (c *Client) DeleteLesson(ctx context.Context, moduleID, lessonID uint) error {
	url := fmt.Sprintf("/admin/module/%d/lesson/%d", moduleID, lessonID)
	return c.call(ctx, resty.MethodDelete, url, nil, nil)
}

// call performs one request and unwraps the response envelope into out
func (c *Client) call(ctx context.Context, method, url string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	var env envelope
	req.SetResult(&env).SetError(&env)

	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("course api %s %s: %v: %w", method, url, err, ErrUnavailable)
	}

	switch {
	case resp.StatusCode() == 401:
		return ErrAuthExpired
	case resp.StatusCode() >= 500:
		return fmt.Errorf("course api %s %s: %s: %w", method, url, resp.Status(), ErrUnavailable)
	case resp.IsError():
		msg := env.Message
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("course api %s %s: %s", method, url, msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("course api %s %s: decoding response: %w", method, url, err)
		}
	}
	return nil
}

func courseBody(d *CourseDraft) map[string]interface{} {
	return map[string]interface{}{
		"title":               d.Title,
		"description":         d.Description,
		"short_description":   d.ShortDescription,
		"category":            d.Category,
		"level":               d.Level,
		"language":            d.Language,
		"duration":            d.Duration,
		"course_type":         d.Type,
		"thumbnail_url":       d.ThumbnailURL,
		"price":               d.Price,
		"original_price":      d.OriginalPrice,
		"pricing_model":       d.PricingModel,
		"currency":            d.Currency,
		"subscription_period": d.SubscriptionPeriod,
		"access_type":         d.AccessType,
		"access_duration":     d.AccessDuration,
		"enrollment_limit":    d.EnrollmentLimit,
		"features":            d.Features,
		"automation":          d.Automation,
		"drip_enabled":        d.DripEnabled,
		"drip_schedule":       d.DripSchedule,
	}
}

func moduleBody(m *ModuleDraft) map[string]interface{} {
	return map[string]interface{}{
		"title":       m.Title,
		"description": m.Description,
		"order_index": m.Order,
	}
}

func lessonBody(l *LessonDraft) map[string]interface{} {
	return map[string]interface{}{
		"title":       l.Title,
		"type":        l.Type,
		"duration":    l.Duration,
		"content":     l.Content,
		"video_url":   l.VideoURL,
		"order_index": l.Order,
	}
}
