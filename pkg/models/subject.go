package models

import (
	"fmt"
	"time"
)

// Subject is a per-account subject label used to categorize materials.
// Names are unique per owner, not globally.
type Subject struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null;size:100;uniqueIndex:idx_subject_name_owner" json:"name"`
	OwnerID   string    `gorm:"not null;size:36;uniqueIndex:idx_subject_name_owner" json:"owner_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Subject.
func (Subject) TableName() string {
	return "subjects"
}

// Validate checks the required subject fields.
func (s *Subject) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("subject name is required")
	}
	if s.OwnerID == "" {
		return fmt.Errorf("subject owner is required")
	}
	return nil
}

// DefaultSubjects is the subject list seeded for an account on first access.
var DefaultSubjects = []string{
	"Deutsch", "Englisch", "Informatik", "Elektrotechnik",
	"Maschinenbau", "Mechatronik", "Netzwerktechnik", "Elektronik",
	"Datenbanken", "Webentwicklung", "Mathematik", "Physik",
}
