// Package roster reads roster export files.
package roster

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"lcr-attendance-backend/internal/models"
)

// ImportResult holds the members read from a roster file and the rows skipped.
type ImportResult struct {
	Members []models.RosterMember `json:"members"`
	Skipped []string              `json:"skipped"`
}

// ParseCSV reads a roster file with "id" and "name" columns and an optional
// "address" column. Comma and tab separated files are both accepted. Rows
// without an id or a name are skipped and reported; a later row with an id
// already seen replaces the earlier one.
func ParseCSV(r io.Reader) (ImportResult, error) {
	br := bufio.NewReader(r)
	sample, _ := br.Peek(1024)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	if !strings.Contains(string(sample), ",") && strings.Contains(string(sample), "\t") {
		reader.Comma = '\t'
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ImportResult{}, errors.New("roster file is empty")
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot read roster header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idCol, ok := cols["id"]
	if !ok {
		return ImportResult{}, errors.New(`roster file needs an "id" column`)
	}
	nameCol, ok := cols["name"]
	if !ok {
		return ImportResult{}, errors.New(`roster file needs a "name" column`)
	}
	addrCol, hasAddr := cols["address"]

	res := ImportResult{Skipped: []string{}}
	seen := map[string]int{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Skipped = append(res.Skipped, fmt.Sprintf("Row %d: %v", pe.Line, pe.Err))
				continue
			}
			return res, fmt.Errorf("read roster: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		id := field(record, idCol)
		name := strings.Join(strings.Fields(field(record, nameCol)), " ")
		if id == "" || name == "" {
			res.Skipped = append(res.Skipped, fmt.Sprintf("Row %d: id and name are required", line))
			continue
		}

		first, last := splitName(name)
		m := models.RosterMember{
			ExternalID: id,
			FullName:   name,
			LastName:   last,
			FirstName:  first,
		}
		if hasAddr {
			m.Address = field(record, addrCol)
		}

		if i, dup := seen[id]; dup {
			m.Position = res.Members[i].Position
			res.Members[i] = m
			continue
		}
		m.Position = len(res.Members)
		seen[id] = len(res.Members)
		res.Members = append(res.Members, m)
	}
	return res, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// splitName returns the first and last name as written, keeping case.
func splitName(full string) (first, last string) {
	if i := strings.Index(full, ","); i >= 0 {
		return strings.TrimSpace(full[i+1:]), strings.TrimSpace(full[:i])
	}
	tokens := strings.Fields(full)
	if len(tokens) == 0 {
		return "", ""
	}
	return strings.Join(tokens[1:], " "), tokens[0]
}
