package models

import (
	"time"

	"github.com/google/uuid"
)

// RosterMember is one entry of the membership roster. ExternalID is the id
// the host records use; LastNameKey is the folded last name used for lookups.
type RosterMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID  string    `gorm:"uniqueIndex"`
	FullName    string
	LastName    string
	LastNameKey string `gorm:"index"`
	FirstName   string
	Address     string
	Position    int `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
