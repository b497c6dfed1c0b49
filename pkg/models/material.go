package models

import (
	"fmt"
	"time"
)

// LessonMaterial represents a stored piece of generated or user-authored
// lesson content (plan, quiz, reading exercise, ...).
//
// Content holds the raw generated text; FormattedHTML the rendered variant
// served to the frontend. Both may be large, hence the text column type.
type LessonMaterial struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID          string     `gorm:"index;not null;size:36" json:"owner_id"`
	MaterialType     string     `gorm:"not null;size:100" json:"material_type"`
	Topic            string     `gorm:"not null;size:255" json:"topic"`
	Content          string     `gorm:"type:text;not null" json:"content"`
	FormattedHTML    string     `gorm:"type:text" json:"formatted_html,omitempty"`
	Subject          string     `gorm:"size:100" json:"subject,omitempty"`
	LanguageLevel    string     `gorm:"size:20" json:"language_level,omitempty"`
	VocabPercentage  *int       `json:"vocab_percentage,omitempty"`
	ContentFocus     string     `gorm:"size:100" json:"content_focus,omitempty"`
	IncludeVocabList *bool      `json:"include_vocab_list,omitempty"`
	Description      string     `gorm:"type:text" json:"description,omitempty"`
	Tags             []string   `gorm:"serializer:json" json:"tags,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ModifiedAt       *time.Time `json:"modified_at,omitempty"`
}

// TableName returns the table name for LessonMaterial.
func (LessonMaterial) TableName() string {
	return "lesson_materials"
}

// Validate checks the required material fields.
func (m *LessonMaterial) Validate() error {
	if m.MaterialType == "" {
		return fmt.Errorf("material type is required")
	}
	if m.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if m.Content == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}
