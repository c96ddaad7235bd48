package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReconciliationBatch struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename       string
	TargetDate     string `gorm:"index"`
	TotalAttendees int
	ProcessedCount int
	MatchedCount   int
	AmbiguousCount int
	UnmatchedCount int
	ConfirmedCount int
	GuestCount     int
	SkippedCount   int
	PresentCount   int
	GuestCounts    datatypes.JSON
	Status         string `gorm:"index"`
	StartedAt      time.Time
	CompletedAt    *time.Time
	SubmittedAt    *time.Time
	CreatedAt      time.Time
}

// All returns every model for AutoMigrate.
func All() []any {
	return []any{
		&RosterMember{},
		&ReconciliationBatch{},
		&MatchAuditLog{},
		&AttendanceMark{},
		&GuestTally{},
	}
}
