package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"lcr-attendance-backend/internal/apperrors"
	"lcr-attendance-backend/internal/models"
	"lcr-attendance-backend/internal/services/attendance"
	"lcr-attendance-backend/internal/services/matching"
	"lcr-attendance-backend/internal/services/templates"
)

// HostApplier writes a submitted result to the attendance records.
type HostApplier interface {
	MarkPresent(ctx context.Context, batchID uuid.UUID, date string, ids []string) []ApplyResult
	AddGuests(ctx context.Context, batchID uuid.UUID, date string, counts GuestCounts) error
}

// BatchStore persists batches and their action logs.
type BatchStore interface {
	CreateBatch(ctx context.Context, batch *models.ReconciliationBatch) error
	UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error
	SaveBatch(ctx context.Context, batch *models.ReconciliationBatch) error
	CompleteBatch(ctx context.Context, batch *models.ReconciliationBatch, entries []models.MatchAuditLog) error
	GetBatch(ctx context.Context, id uuid.UUID) (*models.ReconciliationBatch, error)
	AuditLog(ctx context.Context, id uuid.UUID) ([]models.MatchAuditLog, error)
}

// DefaultSubmitMessage is the summary shown after a submit.
const DefaultSubmitMessage = "{{date}}: {{present}} marked present, {{failed}} failed, {{guests}} guests, {{omitted}} left out"

// DefaultRetention is how long a submitted batch stays in memory.
const DefaultRetention = 30 * time.Minute

const searchPool = 200

type Progress struct {
	ProcessedCount int    `json:"processed_count"`
	Total          int    `json:"total"`
	Status         Status `json:"status"`
}

// SearchHit is one ranked roster search result.
type SearchHit struct {
	RosterCandidate
	Score float64 `json:"score"`
}

// Outcome is returned by Submit.
type Outcome struct {
	Result       Result        `json:"result"`
	ApplyResults []ApplyResult `json:"applyResults"`
	Message      string        `json:"message"`
	Persisted    bool          `json:"persisted"`
}

type sessionState struct {
	mu        sync.Mutex
	batch     models.ReconciliationBatch
	session   *Session
	cancel    context.CancelFunc
	processed atomic.Int64
	total     int
	done      chan struct{}
}

type ReconciliationService struct {
	roster    Roster
	applier   HostApplier
	store     BatchStore
	validator *attendance.Validator
	log       zerolog.Logger
	sessions  sync.Map // batchID -> *sessionState

	// ProgressEvery is how many attendees pass between progress writes.
	ProgressEvery   int
	MessageTemplate string
	// Retention is how long a submitted batch stays in memory for review and
	// downloads. Zero or less keeps it until the process exits.
	Retention time.Duration
	now       func() time.Time
}

func NewReconciliationService(
	roster Roster,
	applier HostApplier,
	store BatchStore,
	log zerolog.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		roster:          roster,
		applier:         applier,
		store:           store,
		validator:       attendance.NewValidator(nil),
		log:             log,
		ProgressEvery:   25,
		MessageTemplate: DefaultSubmitMessage,
		Retention:       DefaultRetention,
		now:             time.Now,
	}
}

// Validate checks an attendance file without starting a reconciliation.
func (s *ReconciliationService) Validate(r io.Reader) attendance.Result {
	return s.validator.Validate(r)
}

// Start validates the upload and, if it is clean, reconciles it in the
// background. A rejected file returns its error list and ErrValidation.
func (s *ReconciliationService) Start(ctx context.Context, filename string, r io.Reader) (uuid.UUID, attendance.Result, error) {
	res := s.validator.Validate(r)
	if !res.Valid() {
		return uuid.Nil, res, fmt.Errorf("attendance file rejected with %d errors: %w", len(res.Errors), apperrors.ErrValidation)
	}

	now := s.now()
	batch := models.ReconciliationBatch{
		ID:             uuid.New(),
		Filename:       filename,
		TargetDate:     res.TargetDate,
		TotalAttendees: len(res.Names),
		Status:         string(StatusRunning),
		StartedAt:      now,
		CreatedAt:      now,
	}
	if err := s.store.CreateBatch(ctx, &batch); err != nil {
		return uuid.Nil, res, fmt.Errorf("create batch: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	st := &sessionState{
		batch:  batch,
		cancel: cancel,
		total:  len(res.Names),
		done:   make(chan struct{}),
	}
	s.sessions.Store(batch.ID, st)

	s.log.Info().
		Str("batch_id", batch.ID.String()).
		Str("file", filename).
		Str("date", res.TargetDate).
		Int("attendees", len(res.Names)).
		Msg("reconciliation started")

	go s.run(runCtx, st, res)
	return batch.ID, res, nil
}

func (s *ReconciliationService) run(ctx context.Context, st *sessionState, res attendance.Result) {
	defer close(st.done)
	defer st.cancel()

	id := st.batch.ID
	rec := NewReconciler(s.roster, s.log)
	rec.now = s.now
	rec.OnProgress = func(processed, total int) {
		st.processed.Store(int64(processed))
		if s.ProgressEvery > 0 && processed%s.ProgressEvery == 0 && processed < total {
			if err := s.store.UpdateProgress(context.Background(), id, processed); err != nil {
				s.log.Warn().Err(err).Str("batch_id", id.String()).Msg("progress update failed")
			}
		}
	}

	session := rec.Run(ctx, res.TargetDate, res.Names)

	st.mu.Lock()
	st.session = session
	s.applyCounts(&st.batch, session)
	completed := s.now()
	st.batch.CompletedAt = &completed
	batch := st.batch
	st.mu.Unlock()

	if err := s.store.SaveBatch(context.Background(), &batch); err != nil {
		s.log.Error().Err(err).Str("batch_id", id.String()).Msg("saving batch failed")
	}

	c := session.Counts()
	s.log.Info().
		Str("batch_id", id.String()).
		Str("status", string(session.Status())).
		Int("matched", c.Matched).
		Int("ambiguous", c.Ambiguous).
		Int("unmatched", c.Unmatched).
		Int("pending", c.Pending).
		Msg("reconciliation finished")
}

func (s *ReconciliationService) applyCounts(b *models.ReconciliationBatch, session *Session) {
	c := session.Counts()
	b.ProcessedCount = c.Matched + c.Unmatched
	b.MatchedCount = c.Matched
	b.AmbiguousCount = c.Ambiguous
	b.UnmatchedCount = c.Unmatched
	b.ConfirmedCount = c.Confirmed
	b.GuestCount = c.Guests
	b.SkippedCount = c.Skipped
	b.Status = string(session.Status())
}

func (s *ReconciliationService) state(id uuid.UUID) (*sessionState, error) {
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, fmt.Errorf("batch %s: %w", id, apperrors.ErrNotFound)
	}
	return v.(*sessionState), nil
}

// Wait blocks until the background run of id has finished.
// evict drops a batch from memory. Progress and the action log are then
// served from the store.
func (s *ReconciliationService) evict(id uuid.UUID) {
	if _, ok := s.sessions.LoadAndDelete(id); ok {
		s.log.Debug().Str("batch_id", id.String()).Msg("batch evicted from memory")
	}
}

func (s *ReconciliationService) Wait(ctx context.Context, id uuid.UUID) error {
	st, err := s.state(id)
	if err != nil {
		return err
	}
	select {
	case <-st.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops a running reconciliation. Entries already classified are kept.
func (s *ReconciliationService) Cancel(id uuid.UUID) error {
	st, err := s.state(id)
	if err != nil {
		return err
	}
	select {
	case <-st.done:
		return fmt.Errorf("batch %s already finished: %w", id, apperrors.ErrInvalidState)
	default:
	}
	st.cancel()
	return nil
}

// Progress reports how far a batch has got. Batches from an earlier process
// are read from the store.
func (s *ReconciliationService) Progress(ctx context.Context, id uuid.UUID) (Progress, error) {
	st, err := s.state(id)
	if err != nil {
		batch, gerr := s.store.GetBatch(ctx, id)
		if gerr != nil {
			return Progress{}, gerr
		}
		return Progress{ProcessedCount: batch.ProcessedCount, Total: batch.TotalAttendees, Status: Status(batch.Status)}, nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	p := Progress{ProcessedCount: int(st.processed.Load()), Total: st.total, Status: StatusRunning}
	if st.session != nil {
		p.Status = st.session.Status()
	}
	return p, nil
}

func (s *ReconciliationService) withSession(id uuid.UUID, fn func(*Session) error) error {
	st, err := s.state(id)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session == nil {
		return fmt.Errorf("batch %s is still running: %w", id, apperrors.ErrInvalidState)
	}
	return fn(st.session)
}

// Snapshot returns a copy of the session. While the run is in progress only
// the date and status are filled in.
func (s *ReconciliationService) Snapshot(id uuid.UUID) (View, error) {
	st, err := s.state(id)
	if err != nil {
		return View{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session == nil {
		return View{TargetDate: st.batch.TargetDate, Status: StatusRunning}, nil
	}
	return st.session.View(), nil
}

// Confirm resolves an unmatched entry to a roster member.
func (s *ReconciliationService) Confirm(ctx context.Context, id uuid.UUID, index int, rosterID string) error {
	member, err := s.roster.Get(ctx, rosterID)
	if err != nil {
		return err
	}
	return s.withSession(id, func(sess *Session) error {
		return sess.Confirm(index, member.ID, member.DisplayName)
	})
}

func (s *ReconciliationService) SetGuest(id uuid.UUID, index int, category string) error {
	c, err := ParseGuestCategory(category)
	if err != nil {
		return err
	}
	return s.withSession(id, func(sess *Session) error {
		return sess.SetGuest(index, c)
	})
}

func (s *ReconciliationService) Skip(id uuid.UUID, index int) error {
	return s.withSession(id, func(sess *Session) error { return sess.Skip(index) })
}

func (s *ReconciliationService) Restore(id uuid.UUID, index int) error {
	return s.withSession(id, func(sess *Session) error { return sess.Restore(index) })
}

func (s *ReconciliationService) Clear(id uuid.UUID, index int) error {
	return s.withSession(id, func(sess *Session) error { return sess.Clear(index) })
}

// AddGuests adjusts the directly entered guest count of one category.
func (s *ReconciliationService) AddGuests(id uuid.UUID, category string, n int) error {
	c, err := ParseGuestCategory(category)
	if err != nil {
		return err
	}
	return s.withSession(id, func(sess *Session) error {
		return sess.AddGuests(c, n)
	})
}

// SearchRoster backs the manual search box, best match first.
func (s *ReconciliationService) SearchRoster(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	cands, err := s.roster.Search(ctx, query, searchPool)
	if err != nil {
		return nil, err
	}
	display := make([]string, len(cands))
	for i, c := range cands {
		display[i] = c.DisplayName
	}

	ranked := matching.Rank(query, display)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	hits := make([]SearchHit, len(ranked))
	for i, r := range ranked {
		hits[i] = SearchHit{RosterCandidate: cands[r.Index], Score: r.Score}
	}
	return hits, nil
}

// Submit closes the session and hands the result to the host. Per-id
// failures are written to the action log and do not stop the rest.
func (s *ReconciliationService) Submit(ctx context.Context, id uuid.UUID) (Outcome, error) {
	st, err := s.state(id)
	if err != nil {
		return Outcome{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session == nil {
		return Outcome{}, fmt.Errorf("batch %s is still running: %w", id, apperrors.ErrInvalidState)
	}
	sess := st.session

	res, err := sess.Finalize()
	if err != nil {
		return Outcome{}, err
	}

	applied := s.applier.MarkPresent(ctx, id, res.TargetDate, res.PresentRosterIDs)
	sess.RecordApply(applied)
	failed := 0
	for _, a := range applied {
		if !a.OK {
			failed++
			s.log.Warn().Str("batch_id", id.String()).Str("roster_id", a.RosterID).Str("error", a.Error).Msg("mark present failed")
		}
	}

	gerr := s.applier.AddGuests(ctx, id, res.TargetDate, res.GuestCounts)
	if gerr != nil {
		s.log.Warn().Err(gerr).Str("batch_id", id.String()).Msg("adding guests failed")
	}
	sess.RecordGuests(res.GuestCounts, gerr)
	res.ActionLog = sess.Log()

	c := sess.Counts()
	s.applyCounts(&st.batch, sess)
	st.batch.PresentCount = len(applied) - failed
	if raw, err := json.Marshal(res.GuestCounts); err == nil {
		st.batch.GuestCounts = datatypes.JSON(raw)
	}
	submitted := s.now()
	st.batch.SubmittedAt = &submitted

	out := Outcome{
		Result:       res,
		ApplyResults: applied,
		Message: templates.Render(s.MessageTemplate, map[string]string{
			"date":    res.TargetDate,
			"present": strconv.Itoa(len(applied) - failed),
			"failed":  strconv.Itoa(failed),
			"guests":  strconv.Itoa(res.GuestCounts.Total()),
			"omitted": strconv.Itoa(c.Skipped + c.Unresolved + c.Pending),
		}),
	}

	if err := s.store.CompleteBatch(ctx, &st.batch, auditEntries(id, res.ActionLog)); err != nil {
		s.log.Error().Err(err).Str("batch_id", id.String()).Msg("persisting submitted batch failed")
	} else {
		out.Persisted = true
	}

	// an unpersisted batch stays in memory, it has no other copy
	if out.Persisted && s.Retention > 0 {
		time.AfterFunc(s.Retention, func() { s.evict(id) })
	}

	s.log.Info().
		Str("batch_id", id.String()).
		Int("present", len(applied)-failed).
		Int("failed", failed).
		Int("guests", res.GuestCounts.Total()).
		Msg("attendance submitted")
	return out, nil
}

func auditEntries(batchID uuid.UUID, entries []LogEntry) []models.MatchAuditLog {
	out := make([]models.MatchAuditLog, len(entries))
	for i, e := range entries {
		row := models.MatchAuditLog{
			ID:           uuid.New(),
			BatchID:      batchID,
			Seq:          i,
			Action:       e.Action,
			AttendeeName: e.Name,
			RosterID:     e.RosterID,
			Detail:       e.Detail,
			CreatedAt:    e.Time,
		}
		if len(e.Data) > 0 {
			if raw, err := json.Marshal(e.Data); err == nil {
				row.Details = datatypes.JSON(raw)
			}
		}
		out[i] = row
	}
	return out
}

// SummaryCSV renders the summary report of a finished batch.
func (s *ReconciliationService) SummaryCSV(id uuid.UUID) ([]byte, error) {
	var out []byte
	err := s.withSession(id, func(sess *Session) error {
		out = SummaryCSV(sess.Summary())
		return nil
	})
	return out, err
}

// LogCSV renders the action log of a finished batch. A batch no longer held
// in memory is rendered from the stored audit rows.
func (s *ReconciliationService) LogCSV(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := s.state(id); err != nil {
		if _, gerr := s.store.GetBatch(ctx, id); gerr != nil {
			return nil, gerr
		}
		rows, aerr := s.store.AuditLog(ctx, id)
		if aerr != nil {
			return nil, aerr
		}
		return LogCSV(logEntries(rows)), nil
	}

	var out []byte
	err := s.withSession(id, func(sess *Session) error {
		out = LogCSV(sess.Log())
		return nil
	})
	return out, err
}

func logEntries(rows []models.MatchAuditLog) []LogEntry {
	out := make([]LogEntry, len(rows))
	for i, r := range rows {
		out[i] = LogEntry{Time: r.CreatedAt, Action: r.Action, Name: r.AttendeeName, RosterID: r.RosterID, Detail: r.Detail}
	}
	return out
}
