package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceMark records a roster member as present for one meeting date.
type AttendanceMark struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID     uuid.UUID `gorm:"index"`
	ExternalID  string    `gorm:"uniqueIndex:idx_mark_member_date"`
	MeetingDate string    `gorm:"uniqueIndex:idx_mark_member_date"`
	CreatedAt   time.Time
}

// GuestTally holds the visitor counts of one meeting date.
type GuestTally struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID     uuid.UUID `gorm:"index"`
	MeetingDate string    `gorm:"uniqueIndex:idx_tally_date_category"`
	Category    string    `gorm:"uniqueIndex:idx_tally_date_category"`
	Count       int
	UpdatedAt   time.Time
}
