package reconciliation

import (
	"context"
	"fmt"
	"time"

	"lcr-attendance-backend/internal/apperrors"
	"lcr-attendance-backend/internal/services/attendance"
	"lcr-attendance-backend/internal/services/names"
)

// RosterCandidate is one roster member as seen by the matcher.
type RosterCandidate struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"displayName"`
	Name        names.ParsedName `json:"name"`
}

// RosterDirectory returns every roster member sharing a last name,
// compared case-insensitively, in roster order.
type RosterDirectory interface {
	FindCandidates(ctx context.Context, lastName string) ([]RosterCandidate, error)
}

// Roster adds the lookups needed by manual resolution.
type Roster interface {
	RosterDirectory
	Get(ctx context.Context, id string) (RosterCandidate, error)
	Search(ctx context.Context, query string, limit int) ([]RosterCandidate, error)
}

// ApplyResult is the host's answer for one "mark present" instruction.
type ApplyResult struct {
	RosterID string `json:"rosterId"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

type GuestCategory string

const (
	GuestMen        GuestCategory = "men"
	GuestWomen      GuestCategory = "women"
	GuestYoungMen   GuestCategory = "young_men"
	GuestYoungWomen GuestCategory = "young_women"
	GuestChildren   GuestCategory = "children"
)

// GuestCategories lists the categories in report order.
var GuestCategories = []GuestCategory{GuestMen, GuestWomen, GuestYoungMen, GuestYoungWomen, GuestChildren}

// ParseGuestCategory accepts the category names used in requests.
func ParseGuestCategory(s string) (GuestCategory, error) {
	for _, c := range GuestCategories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown guest category %q: %w", s, apperrors.ErrValidation)
}

// GuestCounts tallies visitors by category. All counts are non-negative.
type GuestCounts struct {
	Men        int `json:"men"`
	Women      int `json:"women"`
	YoungMen   int `json:"youngMen"`
	YoungWomen int `json:"youngWomen"`
	Children   int `json:"children"`
}

func (g *GuestCounts) field(c GuestCategory) *int {
	switch c {
	case GuestMen:
		return &g.Men
	case GuestWomen:
		return &g.Women
	case GuestYoungMen:
		return &g.YoungMen
	case GuestYoungWomen:
		return &g.YoungWomen
	case GuestChildren:
		return &g.Children
	}
	return nil
}

func (g GuestCounts) Get(c GuestCategory) int {
	if f := g.field(c); f != nil {
		return *f
	}
	return 0
}

// Add adjusts one category. It refuses unknown categories and results below zero.
func (g *GuestCounts) Add(c GuestCategory, n int) error {
	f := g.field(c)
	if f == nil {
		return fmt.Errorf("unknown guest category %q: %w", c, apperrors.ErrValidation)
	}
	if *f+n < 0 {
		return fmt.Errorf("%s count cannot go below zero: %w", c, apperrors.ErrValidation)
	}
	*f += n
	return nil
}

func (g GuestCounts) Total() int {
	return g.Men + g.Women + g.YoungMen + g.YoungWomen + g.Children
}

// GuestInstruction is a single "add guests" instruction for the host.
type GuestInstruction struct {
	Category GuestCategory `json:"category"`
	Count    int           `json:"count"`
}

// Instructions returns one instruction per non-zero category.
func (g GuestCounts) Instructions() []GuestInstruction {
	var out []GuestInstruction
	for _, c := range GuestCategories {
		if n := g.Get(c); n > 0 {
			out = append(out, GuestInstruction{Category: c, Count: n})
		}
	}
	return out
}

// Matched is an attendee tied to a roster member by the matcher.
type Matched struct {
	Index          int                     `json:"index"`
	Attendee       attendance.AttendeeName `json:"attendee"`
	RosterID       string                  `json:"rosterId"`
	RosterName     string                  `json:"rosterName"`
	Method         string                  `json:"method"`
	Ambiguous      bool                    `json:"ambiguous"`
	CandidateCount int                     `json:"candidateCount"`
}

// Resolution is the state of an unmatched entry.
type Resolution string

const (
	Unresolved      Resolution = "unresolved"
	ConfirmedMember Resolution = "confirmed_member"
	Guest           Resolution = "guest"
	Skipped         Resolution = "skipped"
)

// UnmatchedEntry is an attendee with no automatic roster match.
type UnmatchedEntry struct {
	Index      int                     `json:"index"`
	Name       attendance.AttendeeName `json:"name"`
	Resolution Resolution              `json:"resolution"`
	RosterID   string                  `json:"rosterId,omitempty"`
	RosterName string                  `json:"rosterName,omitempty"`
	Category   GuestCategory           `json:"category,omitempty"`
}

// Action log verbs.
const (
	ActionMatched        = "matched"
	ActionAmbiguousMatch = "ambiguous_match"
	ActionUnmatched      = "unmatched"
	ActionLookupFailed   = "lookup_failed"
	ActionConfirmed      = "confirmed_member"
	ActionGuest          = "guest"
	ActionSkipped        = "skipped"
	ActionRestored       = "restored"
	ActionCleared        = "cleared"
	ActionGuestsAdded    = "guests_added"
	ActionUnresolved     = "unresolved"
	ActionCancelled      = "cancelled"
	ActionPresent        = "marked_present"
	ActionApplyFailed    = "apply_failed"
	ActionGuestsApplied  = "guests_applied"
	ActionGuestsFailed   = "guests_failed"
)

// LogEntry is one line of the detailed action log.
type LogEntry struct {
	Time     time.Time      `json:"time"`
	Action   string         `json:"action"`
	Name     string         `json:"name,omitempty"`
	RosterID string         `json:"rosterId,omitempty"`
	Detail   string         `json:"detail,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Status of a reconciliation session.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusSubmitted Status = "submitted"
)

// ReportRow is one line of the summary report.
type ReportRow struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Status    string `json:"status"`
	RosterID  string `json:"rosterId,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// Result is what submit hands to the host applier and the report export.
type Result struct {
	TargetDate        string             `json:"targetDate"`
	PresentRosterIDs  []string           `json:"presentRosterIds"`
	GuestCounts       GuestCounts        `json:"guestCounts"`
	GuestInstructions []GuestInstruction `json:"guestInstructions"`
	SummaryReport     []ReportRow        `json:"summaryReport"`
	ActionLog         []LogEntry         `json:"actionLog"`
}
