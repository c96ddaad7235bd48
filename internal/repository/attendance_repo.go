package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lcr-attendance-backend/internal/models"
	"lcr-attendance-backend/internal/services/reconciliation"
)

// AttendanceRepository records attendance and guest tallies. It is the
// host side of a submit.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// MarkPresent marks each roster id present on date. Every id gets its own
// result; one failure does not stop the rest. Marking the same member twice
// for a date is a no-op.
func (r *AttendanceRepository) MarkPresent(ctx context.Context, batchID uuid.UUID, date string, ids []string) []reconciliation.ApplyResult {
	results := make([]reconciliation.ApplyResult, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			results = append(results, reconciliation.ApplyResult{RosterID: id, Error: err.Error()})
			continue
		}

		var member models.RosterMember
		err := r.db.WithContext(ctx).Select("id").First(&member, "external_id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			results = append(results, reconciliation.ApplyResult{RosterID: id, Error: "unknown roster id"})
			continue
		}
		if err != nil {
			results = append(results, reconciliation.ApplyResult{RosterID: id, Error: err.Error()})
			continue
		}

		mark := models.AttendanceMark{
			ID:          uuid.New(),
			BatchID:     batchID,
			ExternalID:  id,
			MeetingDate: date,
			CreatedAt:   time.Now(),
		}
		err = r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&mark).Error
		if err != nil {
			results = append(results, reconciliation.ApplyResult{RosterID: id, Error: err.Error()})
			continue
		}
		results = append(results, reconciliation.ApplyResult{RosterID: id, OK: true})
	}
	return results
}

// AddGuests adds the counts to the date's tallies, one row per category.
func (r *AttendanceRepository) AddGuests(ctx context.Context, batchID uuid.UUID, date string, counts reconciliation.GuestCounts) error {
	instructions := counts.Instructions()
	if len(instructions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range instructions {
			row := models.GuestTally{
				ID:          uuid.New(),
				BatchID:     batchID,
				MeetingDate: date,
				Category:    string(in.Category),
				Count:       in.Count,
				UpdatedAt:   time.Now(),
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "meeting_date"}, {Name: "category"}},
				DoUpdates: clause.Assignments(map[string]any{
					"count":      gorm.Expr("guest_tallies.count + ?", in.Count),
					"batch_id":   batchID,
					"updated_at": row.UpdatedAt,
				}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// PresentOn lists the roster ids marked present on date.
func (r *AttendanceRepository) PresentOn(ctx context.Context, date string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.AttendanceMark{}).
		Where("meeting_date = ?", date).
		Order("external_id ASC").
		Pluck("external_id", &ids).Error
	return ids, err
}
