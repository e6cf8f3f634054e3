package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeatureFlags are the optional capabilities a course can offer
type FeatureFlags struct {
	Certificate           bool `json:"certificate"`
	Community             bool `json:"community"`
	LiveSessions          bool `json:"live_sessions"`
	DownloadableResources bool `json:"downloadable_resources"`
	Assignments           bool `json:"assignments"`
	Quizzes               bool `json:"quizzes"`
}

// AutomationFlags toggle the emails sent around an enrollment
type AutomationFlags struct {
	WelcomeEmail        bool `json:"welcome_email"`
	CertificateEmail    bool `json:"certificate_email"`
	ProgressReminders   bool `json:"progress_reminders"`
	AbandonmentSequence bool `json:"abandonment_sequence"`
}

// DefaultAutomation returns the automation flags applied to a new course
func DefaultAutomation() AutomationFlags {
	return AutomationFlags{
		WelcomeEmail:        true,
		CertificateEmail:    true,
		ProgressReminders:   true,
		AbandonmentSequence: false,
	}
}

// DripRule delays a module's release until some days after enrollment
type DripRule struct {
	ModuleOrder int `json:"module_order"`
	OffsetDays  int `json:"offset_days"`
}

// Course represents a learning course
type Course struct {
	gorm.Model
	Title            string       `json:"title"`
	Description      string       `json:"description" gorm:"type:text"`
	ShortDescription string       `json:"short_description"`
	Category         string       `json:"category"`
	Level            string       `json:"level"`
	Language         string       `json:"language"`
	Duration         string       `json:"duration"` // free text, e.g. "30 days" or "6 weeks"
	Type             Type         `json:"course_type" gorm:"column:course_type;default:'CUSTOM'"`
	Status           Status       `json:"status" gorm:"default:'DRAFT'"`
	ThumbnailURL     string       `json:"thumbnail_url"`
	Price            float64      `json:"price" gorm:"default:0"`
	OriginalPrice    float64      `json:"original_price" gorm:"default:0"`
	PricingModel     PricingModel `json:"pricing_model" gorm:"default:'FREE'"`
	Currency         string       `json:"currency" gorm:"default:'PHP'"`

	SubscriptionPeriod string `json:"subscription_period"` // MONTHLY, YEARLY
	AccessType         string `json:"access_type"`         // LIFETIME, LIMITED
	AccessDuration     int    `json:"access_duration"`     // days, when access is LIMITED
	EnrollmentLimit    int    `json:"enrollment_limit" gorm:"default:0"` // 0 = unlimited

	Features   datatypes.JSONType[FeatureFlags]    `json:"features"`
	Automation datatypes.JSONType[AutomationFlags] `json:"automation"`

	DripEnabled  bool                          `json:"drip_enabled" gorm:"default:false"`
	DripSchedule datatypes.JSONType[[]DripRule] `json:"drip_schedule"`

	IsDeleted bool `gorm:"default:false"`
}
