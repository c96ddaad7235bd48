package reconciliation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lcr-attendance-backend/internal/services/attendance"
	"lcr-attendance-backend/internal/services/matching"
	"lcr-attendance-backend/internal/services/names"
)

// Reconciler matches validated attendees against the roster.
type Reconciler struct {
	directory RosterDirectory
	log       zerolog.Logger
	now       func() time.Time

	// OnProgress, if set, is called after each attendee is classified.
	OnProgress func(processed, total int)
}

func NewReconciler(dir RosterDirectory, log zerolog.Logger) *Reconciler {
	return &Reconciler{directory: dir, log: log, now: time.Now}
}

// Run classifies every attendee as matched or unmatched. A failed roster
// lookup only sends that attendee to the unmatched list. ctx is checked
// before each attendee; on cancellation the work done so far is kept and the
// rest is reported as pending.
func (r *Reconciler) Run(ctx context.Context, targetDate string, attendees []attendance.AttendeeName) *Session {
	s := newSession(targetDate, r.now)
	cache := map[string][]RosterCandidate{}

	for i, a := range attendees {
		if ctx.Err() != nil {
			s.pending = append([]attendance.AttendeeName{}, attendees[i:]...)
			s.status = StatusCancelled
			s.record(LogEntry{Action: ActionCancelled, Detail: "cancelled by user", Data: map[string]any{
				"processed": i,
				"pending":   len(attendees) - i,
			}})
			r.log.Info().Int("processed", i).Int("pending", len(attendees)-i).Msg("reconciliation cancelled")
			return s
		}

		r.classify(ctx, s, cache, i, a)

		if r.OnProgress != nil {
			r.OnProgress(i+1, len(attendees))
		}
	}

	s.status = StatusCompleted
	return s
}

func (r *Reconciler) classify(ctx context.Context, s *Session, cache map[string][]RosterCandidate, index int, a attendance.AttendeeName) {
	parsed := a.Parsed()

	candidates, ok := cache[parsed.LastName]
	if !ok {
		var err error
		candidates, err = r.directory.FindCandidates(ctx, a.LastName)
		if err != nil {
			r.log.Warn().Err(err).Str("last_name", a.LastName).Msg("roster lookup failed")
			s.record(LogEntry{Action: ActionLookupFailed, Name: a.DisplayName(), Detail: err.Error()})
			s.unmatched = append(s.unmatched, UnmatchedEntry{Index: index, Name: a, Resolution: Unresolved})
			return
		}
		cache[parsed.LastName] = candidates
	}

	var (
		first   *RosterCandidate
		method  string
		matches []string
	)
	for i := range candidates {
		res := matching.MatchNames(parsed, candidates[i].Name)
		if !res.IsMatch {
			continue
		}
		if first == nil {
			first = &candidates[i]
			method = res.Method
		}
		matches = append(matches, candidates[i].ID)
	}

	if first == nil {
		s.unmatched = append(s.unmatched, UnmatchedEntry{Index: index, Name: a, Resolution: Unresolved})
		s.record(LogEntry{Action: ActionUnmatched, Name: a.DisplayName(), Data: map[string]any{
			"candidates": len(candidates),
		}})
		return
	}

	m := Matched{
		Index:          index,
		Attendee:       a,
		RosterID:       first.ID,
		RosterName:     first.DisplayName,
		Method:         method,
		Ambiguous:      len(matches) > 1,
		CandidateCount: len(matches),
	}
	s.matched = append(s.matched, m)

	if m.Ambiguous {
		r.log.Warn().
			Str("attendee", a.DisplayName()).
			Strs("roster_ids", matches).
			Msg("several roster members match, using the first")
		s.record(LogEntry{
			Action:   ActionAmbiguousMatch,
			Name:     a.DisplayName(),
			RosterID: first.ID,
			Detail:   "matched " + strings.Join(matches, ", ") + "; first one used",
			Data:     map[string]any{"method": method, "roster_ids": matches},
		})
		return
	}
	s.record(LogEntry{Action: ActionMatched, Name: a.DisplayName(), RosterID: first.ID, Detail: method})
}

// NewCandidate builds a RosterCandidate from the roster's "Last, First" text.
func NewCandidate(id, displayName string) RosterCandidate {
	return RosterCandidate{ID: id, DisplayName: displayName, Name: names.Parse(displayName)}
}
