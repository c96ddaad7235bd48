package reconciliation

import (
	"fmt"
	"maps"
	"sort"
	"time"

	"lcr-attendance-backend/internal/apperrors"
	"lcr-attendance-backend/internal/services/attendance"
)

// Session holds the matched and unmatched entries of one upload and the
// user's resolution choices. A Session is not safe for concurrent use.
type Session struct {
	targetDate   string
	status       Status
	matched      []Matched
	unmatched    []UnmatchedEntry
	pending      []attendance.AttendeeName
	directGuests GuestCounts
	log          []LogEntry
	now          func() time.Time
}

func newSession(targetDate string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{targetDate: targetDate, status: StatusRunning, now: now}
}

// View is a copy of the session state.
type View struct {
	TargetDate   string                    `json:"targetDate"`
	Status       Status                    `json:"status"`
	Matched      []Matched                 `json:"matched"`
	Unmatched    []UnmatchedEntry          `json:"unmatched"`
	Pending      []attendance.AttendeeName `json:"pending"`
	DirectGuests GuestCounts               `json:"directGuests"`
	GuestCounts  GuestCounts               `json:"guestCounts"`
}

func (s *Session) Status() Status {
	return s.status
}

func (s *Session) TargetDate() string {
	return s.targetDate
}

// View returns a copy of the current state.
func (s *Session) View() View {
	return View{
		TargetDate:   s.targetDate,
		Status:       s.status,
		Matched:      append([]Matched{}, s.matched...),
		Unmatched:    append([]UnmatchedEntry{}, s.unmatched...),
		Pending:      append([]attendance.AttendeeName{}, s.pending...),
		DirectGuests: s.directGuests,
		GuestCounts:  s.guestTotals(),
	}
}

// Log returns a copy of the action log.
func (s *Session) Log() []LogEntry {
	out := make([]LogEntry, len(s.log))
	for i, e := range s.log {
		e.Data = maps.Clone(e.Data)
		out[i] = e
	}
	return out
}

func (s *Session) record(e LogEntry) {
	e.Time = s.now()
	s.log = append(s.log, e)
}

func (s *Session) entry(index int) (*UnmatchedEntry, error) {
	if s.status == StatusRunning {
		return nil, fmt.Errorf("reconciliation still running: %w", apperrors.ErrInvalidState)
	}
	if s.status == StatusSubmitted {
		return nil, fmt.Errorf("session already submitted: %w", apperrors.ErrInvalidState)
	}
	for i := range s.unmatched {
		if s.unmatched[i].Index == index {
			return &s.unmatched[i], nil
		}
	}
	return nil, fmt.Errorf("unmatched entry %d: %w", index, apperrors.ErrNotFound)
}

// Confirm resolves an entry to a roster member chosen by the user.
// A skipped entry has to be restored first.
func (s *Session) Confirm(index int, rosterID, rosterName string) error {
	e, err := s.entry(index)
	if err != nil {
		return err
	}
	if e.Resolution == Skipped {
		return fmt.Errorf("entry %d is skipped: %w", index, apperrors.ErrInvalidState)
	}
	e.Resolution = ConfirmedMember
	e.RosterID = rosterID
	e.RosterName = rosterName
	e.Category = ""
	s.record(LogEntry{Action: ActionConfirmed, Name: e.Name.DisplayName(), RosterID: rosterID, Detail: rosterName})
	return nil
}

// SetGuest counts an entry as a visitor in category.
func (s *Session) SetGuest(index int, category GuestCategory) error {
	if _, err := ParseGuestCategory(string(category)); err != nil {
		return err
	}
	e, err := s.entry(index)
	if err != nil {
		return err
	}
	if e.Resolution == Skipped {
		return fmt.Errorf("entry %d is skipped: %w", index, apperrors.ErrInvalidState)
	}
	e.Resolution = Guest
	e.Category = category
	e.RosterID = ""
	e.RosterName = ""
	s.record(LogEntry{Action: ActionGuest, Name: e.Name.DisplayName(), Detail: string(category)})
	return nil
}

// Skip drops an entry from the submission, discarding any earlier choice.
func (s *Session) Skip(index int) error {
	e, err := s.entry(index)
	if err != nil {
		return err
	}
	if e.Resolution == Skipped {
		return nil
	}
	*e = UnmatchedEntry{Index: e.Index, Name: e.Name, Resolution: Skipped}
	s.record(LogEntry{Action: ActionSkipped, Name: e.Name.DisplayName()})
	return nil
}

// Restore brings a skipped entry back to unresolved.
func (s *Session) Restore(index int) error {
	e, err := s.entry(index)
	if err != nil {
		return err
	}
	if e.Resolution != Skipped {
		return fmt.Errorf("entry %d is not skipped: %w", index, apperrors.ErrInvalidState)
	}
	e.Resolution = Unresolved
	s.record(LogEntry{Action: ActionRestored, Name: e.Name.DisplayName()})
	return nil
}

// Clear undoes a member or guest choice.
func (s *Session) Clear(index int) error {
	e, err := s.entry(index)
	if err != nil {
		return err
	}
	if e.Resolution == Skipped {
		return fmt.Errorf("entry %d is skipped: %w", index, apperrors.ErrInvalidState)
	}
	if e.Resolution == Unresolved {
		return nil
	}
	*e = UnmatchedEntry{Index: e.Index, Name: e.Name, Resolution: Unresolved}
	s.record(LogEntry{Action: ActionCleared, Name: e.Name.DisplayName()})
	return nil
}

// AddGuests adjusts the directly entered guest counts.
func (s *Session) AddGuests(category GuestCategory, n int) error {
	if s.status == StatusRunning || s.status == StatusSubmitted {
		return fmt.Errorf("cannot change guests while %s: %w", s.status, apperrors.ErrInvalidState)
	}
	if err := s.directGuests.Add(category, n); err != nil {
		return err
	}
	s.record(LogEntry{Action: ActionGuestsAdded, Detail: fmt.Sprintf("%s %+d", category, n)})
	return nil
}

func (s *Session) guestTotals() GuestCounts {
	totals := s.directGuests
	for _, e := range s.unmatched {
		if e.Resolution == Guest {
			_ = totals.Add(e.Category, 1)
		}
	}
	return totals
}

// Summary builds the summary report rows in upload order. Skipped entries
// are left out.
func (s *Session) Summary() []ReportRow {
	type indexed struct {
		index int
		row   ReportRow
	}
	var rows []indexed

	for _, m := range s.matched {
		status := "Matched"
		if m.Ambiguous {
			status = "Matched (ambiguous)"
		}
		rows = append(rows, indexed{m.Index, ReportRow{
			LastName:  m.Attendee.LastName,
			FirstName: m.Attendee.FirstName,
			Status:    status,
			RosterID:  m.RosterID,
			Detail:    m.Method,
		}})
	}
	for _, e := range s.unmatched {
		row := ReportRow{LastName: e.Name.LastName, FirstName: e.Name.FirstName}
		switch e.Resolution {
		case Skipped:
			continue
		case ConfirmedMember:
			row.Status = "Confirmed"
			row.RosterID = e.RosterID
			row.Detail = e.RosterName
		case Guest:
			row.Status = "Guest"
			row.Detail = string(e.Category)
		default:
			row.Status = "Unresolved"
		}
		rows = append(rows, indexed{e.Index, row})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })

	out := make([]ReportRow, len(rows))
	for i, r := range rows {
		out[i] = r.row
	}
	return out
}

// Finalize closes the session and builds the result. Matched and confirmed
// members become present ids, guests are summed with the direct counts, and
// skipped or unresolved entries are only noted in the action log.
func (s *Session) Finalize() (Result, error) {
	switch s.status {
	case StatusRunning:
		return Result{}, fmt.Errorf("reconciliation still running: %w", apperrors.ErrInvalidState)
	case StatusSubmitted:
		return Result{}, fmt.Errorf("session already submitted: %w", apperrors.ErrInvalidState)
	}

	seen := map[string]bool{}
	ids := []string{}
	addID := func(id, name string) {
		if seen[id] {
			s.record(LogEntry{Action: ActionPresent, Name: name, RosterID: id, Detail: "duplicate roster id ignored"})
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, m := range s.matched {
		addID(m.RosterID, m.Attendee.DisplayName())
	}
	for _, e := range s.unmatched {
		switch e.Resolution {
		case ConfirmedMember:
			addID(e.RosterID, e.Name.DisplayName())
		case Skipped:
			s.record(LogEntry{Action: ActionSkipped, Name: e.Name.DisplayName(), Detail: "omitted from submission"})
		case Unresolved:
			s.record(LogEntry{Action: ActionUnresolved, Name: e.Name.DisplayName(), Detail: "omitted from submission"})
		}
	}
	for _, a := range s.pending {
		s.record(LogEntry{Action: ActionCancelled, Name: a.DisplayName(), Detail: "not processed before cancellation"})
	}

	guests := s.guestTotals()
	res := Result{
		TargetDate:        s.targetDate,
		PresentRosterIDs:  ids,
		GuestCounts:       guests,
		GuestInstructions: guests.Instructions(),
		SummaryReport:     s.Summary(),
	}
	s.status = StatusSubmitted
	res.ActionLog = s.Log()
	return res, nil
}

// RecordApply notes the host's per-id answers in the action log.
func (s *Session) RecordApply(results []ApplyResult) {
	for _, r := range results {
		if r.OK {
			s.record(LogEntry{Action: ActionPresent, RosterID: r.RosterID})
			continue
		}
		s.record(LogEntry{Action: ActionApplyFailed, RosterID: r.RosterID, Detail: r.Error})
	}
}

// RecordGuests notes the outcome of writing guest tallies.
func (s *Session) RecordGuests(counts GuestCounts, err error) {
	data := map[string]any{}
	for _, in := range counts.Instructions() {
		data[string(in.Category)] = in.Count
	}
	if err != nil {
		s.record(LogEntry{Action: ActionGuestsFailed, Detail: err.Error(), Data: data})
		return
	}
	s.record(LogEntry{Action: ActionGuestsApplied, Detail: fmt.Sprintf("%d guests", counts.Total()), Data: data})
}

// Counts summarizes the session for persistence.
type Counts struct {
	Matched    int
	Ambiguous  int
	Unmatched  int
	Confirmed  int
	Guests     int
	Skipped    int
	Unresolved int
	Pending    int
}

func (s *Session) Counts() Counts {
	c := Counts{Matched: len(s.matched), Unmatched: len(s.unmatched), Pending: len(s.pending)}
	for _, m := range s.matched {
		if m.Ambiguous {
			c.Ambiguous++
		}
	}
	for _, e := range s.unmatched {
		switch e.Resolution {
		case ConfirmedMember:
			c.Confirmed++
		case Guest:
			c.Guests++
		case Skipped:
			c.Skipped++
		default:
			c.Unresolved++
		}
	}
	return c
}
