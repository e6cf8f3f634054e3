package course

import "gorm.io/gorm"

// Lesson represents a single unit of content within a module
type Lesson struct {
	gorm.Model
	CourseID uint       `json:"course_id" gorm:"index;not null"`
	ModuleID uint       `json:"module_id" gorm:"index;not null"`
	Title    string     `json:"title"`
	Type     LessonType `json:"type" gorm:"default:'TEXT'"`
	Duration string     `json:"duration"` // e.g. "12 min"

	// Payload depends on Type: VIDEO uses VideoURL, TEXT/ASSIGNMENT use Content
	Content  string `json:"content" gorm:"type:text"`
	VideoURL string `json:"video_url"`

	OrderIndex int  `json:"order_index" gorm:"default:0"` // 1-based position within the module
	IsDeleted  bool `gorm:"default:false"`
}
