package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lcr-attendance-backend/internal/apperrors"
	"lcr-attendance-backend/internal/models"
	"lcr-attendance-backend/internal/services/names"
	"lcr-attendance-backend/internal/services/reconciliation"
)

type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func toCandidate(m models.RosterMember) reconciliation.RosterCandidate {
	return reconciliation.NewCandidate(m.ExternalID, m.FullName)
}

// FindCandidates returns the members whose folded last name equals lastName,
// in roster order.
func (r *RosterRepository) FindCandidates(ctx context.Context, lastName string) ([]reconciliation.RosterCandidate, error) {
	var members []models.RosterMember
	err := r.db.WithContext(ctx).
		Where("last_name_key = ?", names.FromParts("", lastName).LastName).
		Order("position ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("find roster candidates for %q: %w", lastName, err)
	}

	out := make([]reconciliation.RosterCandidate, len(members))
	for i, m := range members {
		out[i] = toCandidate(m)
	}
	return out, nil
}

// Get fetches a single member by roster id.
func (r *RosterRepository) Get(ctx context.Context, id string) (reconciliation.RosterCandidate, error) {
	var m models.RosterMember
	err := r.db.WithContext(ctx).First(&m, "external_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconciliation.RosterCandidate{}, fmt.Errorf("roster member %q: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return reconciliation.RosterCandidate{}, err
	}
	return toCandidate(m), nil
}

// Search is the manual search box lookup. Any member whose name contains one
// of the query words is returned; ranking is left to the caller.
func (r *RosterRepository) Search(ctx context.Context, query string, limit int) ([]reconciliation.RosterCandidate, error) {
	q := r.db.WithContext(ctx).Model(&models.RosterMember{}).Order("position ASC")

	words := strings.Fields(strings.ToLower(strings.NewReplacer(",", " ").Replace(query)))
	if len(words) > 0 {
		cond := r.db.Where("LOWER(full_name) LIKE ?", "%"+words[0]+"%")
		for _, w := range words[1:] {
			cond = cond.Or("LOWER(full_name) LIKE ?", "%"+w+"%")
		}
		q = q.Where(cond)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var members []models.RosterMember
	if err := q.Find(&members).Error; err != nil {
		return nil, err
	}
	out := make([]reconciliation.RosterCandidate, len(members))
	for i, m := range members {
		out[i] = toCandidate(m)
	}
	return out, nil
}

// Upsert inserts or updates members keyed on their roster id. Position keeps
// the order of the uploaded file.
func (r *RosterRepository) Upsert(ctx context.Context, members []models.RosterMember) (int, error) {
	if len(members) == 0 {
		return 0, nil
	}
	now := time.Now()
	for i := range members {
		if members[i].ID == uuid.Nil {
			members[i].ID = uuid.New()
		}
		parsed := names.Parse(members[i].FullName)
		members[i].LastNameKey = parsed.LastName
		if members[i].LastName == "" {
			members[i].LastName = lastNamePart(members[i].FullName)
		}
		members[i].CreatedAt = now
		members[i].UpdatedAt = now
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "last_name", "last_name_key", "first_name", "address", "position", "updated_at"}),
	}).Create(&members)
	return int(res.RowsAffected), res.Error
}

// All returns the whole roster in order.
func (r *RosterRepository) All(ctx context.Context) ([]models.RosterMember, error) {
	var members []models.RosterMember
	err := r.db.WithContext(ctx).Order("position ASC").Find(&members).Error
	return members, err
}

func lastNamePart(full string) string {
	if i := strings.Index(full, ","); i >= 0 {
		return strings.TrimSpace(full[:i])
	}
	if f := strings.Fields(full); len(f) > 0 {
		return f[0]
	}
	return ""
}
