package dates

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedParser() *Parser {
	return &Parser{Now: func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) }}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-07", "2024-01-07"},
		{"2024-01-07T09:30:00Z", "2024-01-07"},
		{"01/07/2024", "2024-01-07"},
		{"1/7/2024", "2024-01-07"},
		{"01-07-2024", "2024-01-07"},
		{"7 Jan 2024", "2024-01-07"},
		{"07 January 2024", "2024-01-07"},
		{"Jan 7, 2024", "2024-01-07"},
		{"Sept. 1 2024", "2024-09-01"},
		{"7 Jan", "2025-01-07"},
		{"Jan 7", "2025-01-07"},
		{"  feb 29, 2032  ", "2032-02-29"},
	}

	p := fixedParser()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := p.Parse(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseRejects(t *testing.T) {
	p := fixedParser()
	for _, in := range []string{"", "next sunday", "13/01/2024", "02/30/2024", "7 Foo 2024", "Janxyz 7, 2024", "Ja 7", "2023-02-29", "2024/01/07"} {
		_, ok := p.Parse(in)
		assert.False(t, ok, in)
	}
}

func TestParseRoundTrip(t *testing.T) {
	p := fixedParser()
	start := time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i += 7 {
		day := start.AddDate(0, 0, i)

		for _, layout := range []string{"01/02/2006", "01-02-2006", "2006-01-02", "2 Jan 2006", "Jan 2, 2006"} {
			text := day.Format(layout)
			got, ok := p.Parse(text)
			require.True(t, ok, text)
			assert.Equal(t, text, got.Time().Format(layout))
		}
	}
}

func TestValidateIsSunday(t *testing.T) {
	sunday := Date{Year: 2024, Month: time.January, Day: 7}
	require.NoError(t, ValidateIsSunday(sunday))
	require.NoError(t, ValidateIsSunday(Date{Year: 2032, Month: time.February, Day: 29}))

	for i := 1; i < 7; i++ {
		d := sunday.Time().AddDate(0, 0, i)
		err := ValidateIsSunday(Date{Year: d.Year(), Month: d.Month(), Day: d.Day()})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotSunday))
		assert.Contains(t, err.Error(), d.Weekday().String())
	}
}

func TestValidateIsSundayMessage(t *testing.T) {
	err := ValidateIsSunday(Date{Year: 2024, Month: time.January, Day: 8})
	assert.EqualError(t, err, fmt.Sprintf("2024-01-08 is a Monday, %s", ErrNotSunday))
}
