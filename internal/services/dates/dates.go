// Package dates parses the loosely formatted meeting dates found in
// attendance uploads into calendar dates.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CanonicalLayout is the YYYY-MM-DD form used to compare dates across rows.
const CanonicalLayout = "2006-01-02"

// ErrNotSunday is returned by ValidateIsSunday for any other weekday.
var ErrNotSunday = errors.New("not a Sunday")

// Date is a calendar date with no time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Time returns midnight UTC of the date. UTC keeps the calendar day stable
// regardless of the server's zone.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time().Format(CanonicalLayout)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	isoRe        = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[T ][0-9:.]+(?:Z|[+-]\d{2}:?\d{2})?)?$`)
	slashRe      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dashRe       = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	dayMonYearRe = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})$`)
	monDayYearRe = regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})$`)
	dayMonRe     = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\.?$`)
	monDayRe     = regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2})$`)

	fieldOrderYMD = [3]int{1, 2, 3}
	fieldOrderMDY = [3]int{3, 1, 2}
)

// Parser parses date text. Now supplies the year for yearless formats.
type Parser struct {
	Now func() time.Time
}

// NewParser returns a Parser using the wall clock.
func NewParser() *Parser {
	return &Parser{Now: time.Now}
}

// Parse tries ISO first, then MM/DD/YYYY, MM-DD-YYYY, "DD Mon YYYY",
// "Mon DD, YYYY", "DD Mon" and "Mon DD". Dates that do not exist on the
// calendar are rejected rather than rolled over.
func (p *Parser) Parse(text string) (Date, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Date{}, false
	}

	if m := isoRe.FindStringSubmatch(s); m != nil {
		return numeric(m, fieldOrderYMD)
	}
	if m := slashRe.FindStringSubmatch(s); m != nil {
		return numeric(m, fieldOrderMDY)
	}
	if m := dashRe.FindStringSubmatch(s); m != nil {
		return numeric(m, fieldOrderMDY)
	}
	if m := dayMonYearRe.FindStringSubmatch(s); m != nil {
		return named(m[3], m[2], m[1])
	}
	if m := monDayYearRe.FindStringSubmatch(s); m != nil {
		return named(m[3], m[1], m[2])
	}

	year := strconv.Itoa(p.now().Year())
	if m := dayMonRe.FindStringSubmatch(s); m != nil {
		return named(year, m[2], m[1])
	}
	if m := monDayRe.FindStringSubmatch(s); m != nil {
		return named(year, m[1], m[2])
	}
	return Date{}, false
}

func (p *Parser) now() time.Time {
	if p == nil || p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// numeric builds a date from regex groups; order lists the group index of
// year, month and day.
func numeric(m []string, order [3]int) (Date, bool) {
	y, _ := strconv.Atoi(m[order[0]])
	mo, _ := strconv.Atoi(m[order[1]])
	d, _ := strconv.Atoi(m[order[2]])
	return build(y, mo, d)
}

func named(year, month, day string) (Date, bool) {
	mo, ok := lookupMonth(month)
	if !ok {
		return Date{}, false
	}
	y, _ := strconv.Atoi(year)
	d, _ := strconv.Atoi(day)
	return build(y, int(mo), d)
}

// lookupMonth accepts a month abbreviation or any longer prefix of the full
// English month name ("Sep", "Sept", "September").
func lookupMonth(word string) (time.Month, bool) {
	w := strings.ToLower(word)
	if len(w) < 3 {
		return 0, false
	}
	mo, ok := monthAbbrev[w[:3]]
	if !ok {
		return 0, false
	}
	if !strings.HasPrefix(strings.ToLower(mo.String()), w) {
		return 0, false
	}
	return mo, true
}

func build(y, mo, d int) (Date, bool) {
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return Date{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return Date{}, false
	}
	return Date{Year: y, Month: time.Month(mo), Day: d}, true
}

// ValidateIsSunday returns nil for Sundays and a wrapped ErrNotSunday otherwise.
func ValidateIsSunday(d Date) error {
	if wd := d.Weekday(); wd != time.Sunday {
		return fmt.Errorf("%s is a %s, %w", d, wd, ErrNotSunday)
	}
	return nil
}
