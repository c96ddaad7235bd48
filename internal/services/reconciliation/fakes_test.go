package reconciliation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lcr-attendance-backend/internal/apperrors"
	"lcr-attendance-backend/internal/models"
	"lcr-attendance-backend/internal/services/attendance"
	"lcr-attendance-backend/internal/services/names"
)

var fixedNow = func() time.Time { return time.Date(2024, time.January, 7, 10, 0, 0, 0, time.UTC) }

// fakeRoster is an in-memory Roster in insertion order.
type fakeRoster struct {
	mu      sync.Mutex
	members []RosterCandidate
	failFor map[string]error
	lookups int
	block   chan struct{}
}

func newFakeRoster(entries ...string) *fakeRoster {
	r := &fakeRoster{failFor: map[string]error{}}
	for i := 0; i+1 < len(entries); i += 2 {
		r.members = append(r.members, NewCandidate(entries[i], entries[i+1]))
	}
	return r
}

func (r *fakeRoster) FindCandidates(ctx context.Context, lastName string) ([]RosterCandidate, error) {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	key := names.FromParts("", lastName).LastName
	if err, ok := r.failFor[key]; ok {
		return nil, err
	}
	var out []RosterCandidate
	for _, m := range r.members {
		if m.Name.LastName == key {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRoster) Get(_ context.Context, id string) (RosterCandidate, error) {
	for _, m := range r.members {
		if m.ID == id {
			return m, nil
		}
	}
	return RosterCandidate{}, apperrors.ErrNotFound
}

func (r *fakeRoster) Search(_ context.Context, query string, limit int) ([]RosterCandidate, error) {
	var out []RosterCandidate
	for _, m := range r.members {
		for _, w := range strings.Fields(strings.ToLower(strings.ReplaceAll(query, ",", " "))) {
			if strings.Contains(strings.ToLower(m.DisplayName), w) {
				out = append(out, m)
				break
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeApplier struct {
	known     map[string]bool
	marked    []string
	guests    GuestCounts
	guestErr  error
	guestCall int
}

func (a *fakeApplier) MarkPresent(_ context.Context, _ uuid.UUID, _ string, ids []string) []ApplyResult {
	out := make([]ApplyResult, 0, len(ids))
	for _, id := range ids {
		if !a.known[id] {
			out = append(out, ApplyResult{RosterID: id, Error: "unknown roster id"})
			continue
		}
		a.marked = append(a.marked, id)
		out = append(out, ApplyResult{RosterID: id, OK: true})
	}
	return out
}

func (a *fakeApplier) AddGuests(_ context.Context, _ uuid.UUID, _ string, counts GuestCounts) error {
	a.guestCall++
	if a.guestErr != nil {
		return a.guestErr
	}
	a.guests = counts
	return nil
}

type fakeStore struct {
	mu        sync.Mutex
	batches   map[uuid.UUID]models.ReconciliationBatch
	audit     []models.MatchAuditLog
	progress  []int
	failSave  bool
	completed int
}

func newFakeStore() *fakeStore {
	return &fakeStore{batches: map[uuid.UUID]models.ReconciliationBatch{}}
}

func (s *fakeStore) CreateBatch(_ context.Context, b *models.ReconciliationBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = *b
	return nil
}

func (s *fakeStore) UpdateProgress(_ context.Context, id uuid.UUID, processed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, processed)
	b := s.batches[id]
	b.ProcessedCount = processed
	s.batches[id] = b
	return nil
}

func (s *fakeStore) SaveBatch(_ context.Context, b *models.ReconciliationBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = *b
	return nil
}

func (s *fakeStore) CompleteBatch(_ context.Context, b *models.ReconciliationBatch, entries []models.MatchAuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("database unavailable")
	}
	s.completed++
	s.batches[b.ID] = *b
	s.audit = append(s.audit, entries...)
	return nil
}

func (s *fakeStore) GetBatch(_ context.Context, id uuid.UUID) (*models.ReconciliationBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (s *fakeStore) AuditLog(_ context.Context, id uuid.UUID) ([]models.MatchAuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MatchAuditLog
	for _, e := range s.audit {
		if e.BatchID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func attendee(first, last string) attendance.AttendeeName {
	return attendance.AttendeeName{FirstName: first, LastName: last, Date: "2024-01-07"}
}
