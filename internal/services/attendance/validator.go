// Package attendance validates uploaded attendance CSV files.
package attendance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"lcr-attendance-backend/internal/services/dates"
	"lcr-attendance-backend/internal/services/names"
)

// Required header columns, compared case-insensitively.
const (
	ColumnDate      = "date"
	ColumnFirstName = "first name"
	ColumnLastName  = "last name"
)

var requiredColumns = []struct {
	key     string
	display string
}{
	{ColumnDate, "Date"},
	{ColumnFirstName, "First Name"},
	{ColumnLastName, "Last Name"},
}

// AttendeeName is one attendee row as written in the CSV.
type AttendeeName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Date      string `json:"date"`
}

// Parsed returns the case-folded form used for matching.
func (a AttendeeName) Parsed() names.ParsedName {
	return names.FromParts(a.FirstName, a.LastName)
}

// DisplayName renders "Last, First".
func (a AttendeeName) DisplayName() string {
	return a.LastName + ", " + a.FirstName
}

// Result is the outcome of a validation. Names and TargetDate are only set
// when Errors is empty.
type Result struct {
	Names      []AttendeeName `json:"names"`
	TargetDate string         `json:"targetDate,omitempty"`
	Errors     []string       `json:"errors"`
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validator checks the header, every row and duplicate names, collecting
// every problem it finds before rejecting the upload.
type Validator struct {
	dates *dates.Parser
}

func NewValidator(p *dates.Parser) *Validator {
	if p == nil {
		p = dates.NewParser()
	}
	return &Validator{dates: p}
}

// ValidateString validates CSV text.
func (v *Validator) ValidateString(text string) Result {
	return v.Validate(strings.NewReader(text))
}

// Validate reads the whole CSV from r.
func (v *Validator) Validate(r io.Reader) Result {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var errs []string

	var header []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return reject([]string{"CSV file is empty"})
		}
		if err != nil {
			return reject([]string{fmt.Sprintf("Cannot read CSV header: %v", err)})
		}
		if !blank(record) {
			header = record
			break
		}
	}

	index := map[string]int{}
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimPrefix(col, "\ufeff"), `"`)))
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	maxIdx := 0
	for _, col := range requiredColumns {
		i, ok := index[col.key]
		if !ok {
			errs = append(errs, fmt.Sprintf("Missing required column %q", col.display))
			continue
		}
		maxIdx = max(maxIdx, i)
	}
	if len(errs) > 0 {
		return reject(errs)
	}

	var (
		attendees  []AttendeeName
		counts     = map[string]int{}
		firstSeen  = map[string]AttendeeName{}
		keyOrder   []string
		haveDate   bool
		refRawDate string
		targetDate dates.Date
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				errs = append(errs, fmt.Sprintf("Row %d: malformed CSV: %v", perr.StartLine, perr.Err))
			} else {
				errs = append(errs, fmt.Sprintf("Malformed CSV: %v", err))
			}
			continue
		}
		if blank(record) {
			continue
		}

		row, _ := reader.FieldPos(0)

		if len(record) <= maxIdx {
			errs = append(errs, fmt.Sprintf("Row %d: expected at least %d columns, found %d", row, maxIdx+1, len(record)))
			continue
		}

		rawDate := strings.TrimSpace(record[index[ColumnDate]])
		first := strings.TrimSpace(record[index[ColumnFirstName]])
		last := strings.TrimSpace(record[index[ColumnLastName]])

		if !haveDate {
			haveDate = true
			refRawDate = rawDate
			d, ok := v.dates.Parse(rawDate)
			switch {
			case !ok:
				errs = append(errs, fmt.Sprintf("Row %d: invalid date %q", row, rawDate))
			case dates.ValidateIsSunday(d) != nil:
				errs = append(errs, fmt.Sprintf("Row %d: date %q is not a Sunday (%s)", row, rawDate, d.Weekday()))
			default:
				targetDate = d
			}
		} else if rawDate != refRawDate {
			msg := fmt.Sprintf("Row %d: date %q does not match the first row's date %q", row, rawDate, refRawDate)
			if d, ok := v.dates.Parse(rawDate); ok && dates.ValidateIsSunday(d) != nil {
				msg += fmt.Sprintf(" and is not a Sunday (%s)", d.Weekday())
			}
			errs = append(errs, msg)
		}

		switch {
		case first == "" && last == "":
			errs = append(errs, fmt.Sprintf("Row %d: missing first and last name", row))
			continue
		case first == "":
			errs = append(errs, fmt.Sprintf("Row %d: missing first name for %q", row, last))
			continue
		case last == "":
			errs = append(errs, fmt.Sprintf("Row %d: missing last name for %q", row, first))
			continue
		}

		a := AttendeeName{FirstName: first, LastName: last, Date: rawDate}
		attendees = append(attendees, a)

		p := names.FromParts(first, last)
		key := p.LastName + ", " + p.FirstName
		if counts[key] == 0 {
			firstSeen[key] = a
			keyOrder = append(keyOrder, key)
		}
		counts[key]++
	}

	if !haveDate && len(errs) == 0 {
		errs = append(errs, "CSV file has no attendee rows")
	}

	for _, key := range keyOrder {
		if n := counts[key]; n > 1 {
			errs = append(errs, fmt.Sprintf("Duplicate name %q appears %d times", firstSeen[key].DisplayName(), n))
		}
	}

	if len(errs) > 0 {
		return reject(errs)
	}

	SortNames(attendees)
	return Result{Names: attendees, TargetDate: targetDate.String(), Errors: []string{}}
}

// SortNames orders attendees by last name, then first name, ignoring case.
func SortNames(list []AttendeeName) {
	sort.SliceStable(list, func(i, j int) bool {
		li, lj := names.Fold(list[i].LastName), names.Fold(list[j].LastName)
		if li != lj {
			return li < lj
		}
		return names.Fold(list[i].FirstName) < names.Fold(list[j].FirstName)
	})
}

func reject(errs []string) Result {
	return Result{Names: []AttendeeName{}, Errors: errs}
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
