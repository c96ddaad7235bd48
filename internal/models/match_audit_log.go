package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MatchAuditLog is one persisted line of a batch's action log.
type MatchAuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID      uuid.UUID `gorm:"index"`
	Seq          int
	Action       string `gorm:"index"`
	AttendeeName string
	RosterID     string
	Detail       string
	Details      datatypes.JSON
	CreatedAt    time.Time
}
