package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resource is a downloadable file attached to the platform. Unlike courses
// and modules, resources are keyed by GUID.
type Resource struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	FileType  string    `json:"file_type"` // PDF, ZIP, IMAGE, ...
	SizeBytes int64     `json:"size_bytes" gorm:"default:0"`
	CourseID  *uint     `json:"course_id" gorm:"index"` // optional course attachment
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `gorm:"default:false"`
}

// BeforeCreate assigns the GUID key when one was not provided
func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
