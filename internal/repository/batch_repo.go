package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lcr-attendance-backend/internal/apperrors"
	"lcr-attendance-backend/internal/models"
)

type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) CreateBatch(ctx context.Context, batch *models.ReconciliationBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// UpdateProgress sets the processed count of a batch.
func (r *BatchRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error {
	return r.db.WithContext(ctx).Model(&models.ReconciliationBatch{}).
		Where("id = ?", id).
		Update("processed_count", processed).
		Error
}

func (r *BatchRepository) SaveBatch(ctx context.Context, batch *models.ReconciliationBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// CompleteBatch stores the final batch row and its action log together.
func (r *BatchRepository) CompleteBatch(ctx context.Context, batch *models.ReconciliationBatch, entries []models.MatchAuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(batch).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 200).Error
	})
}

func (r *BatchRepository) GetBatch(ctx context.Context, id uuid.UUID) (*models.ReconciliationBatch, error) {
	var batch models.ReconciliationBatch
	err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("batch %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// AuditLog returns the stored action log of a batch in recorded order.
func (r *BatchRepository) AuditLog(ctx context.Context, id uuid.UUID) ([]models.MatchAuditLog, error) {
	var entries []models.MatchAuditLog
	err := r.db.WithContext(ctx).Where("batch_id = ?", id).Order("seq ASC").Find(&entries).Error
	return entries, err
}
