package attendance

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lcr-attendance-backend/internal/services/dates"
)

func newTestValidator() *Validator {
	return NewValidator(&dates.Parser{Now: func() time.Time { return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC) }})
}

func csvLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestValidateWellFormed(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"01/07/2024,John,Doe",
		"01/07/2024,Jane,Smith",
	))

	require.Empty(t, got.Errors)
	assert.True(t, got.Valid())
	assert.Len(t, got.Names, 2)
	assert.Equal(t, "2024-01-07", got.TargetDate)
}

func TestValidateNonSundayFirstRow(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"01/08/2024,John,Doe",
		"01/08/2024,Jane,Smith",
	))

	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "not a Sunday")
	assert.Contains(t, got.Errors[0], "Row 2")
	assert.Empty(t, got.Names)
	assert.Empty(t, got.TargetDate)
}

func TestValidateNonSundayLaterRow(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"01/07/2024,John,Doe",
		"01/08/2024,Jane,Smith",
	))

	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "Row 3")
	assert.Contains(t, got.Errors[0], `"01/08/2024"`)
	assert.Contains(t, got.Errors[0], `"01/07/2024"`)
	assert.Contains(t, got.Errors[0], "not a Sunday")
	assert.Empty(t, got.Names)
}

func TestValidateDateEqualityIsOnRawText(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"01/07/2024,John,Doe",
		"2024-01-07,Jane,Smith",
	))

	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "does not match")
	assert.NotContains(t, got.Errors[0], "not a Sunday")
}

func TestValidateDuplicates(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"01/07/2024,John,Smith",
		"01/07/2024,JOHN,smith",
		"01/07/2024,John,Smith",
	))

	require.Len(t, got.Errors, 1)
	assert.Equal(t, `Duplicate name "Smith, John" appears 3 times`, got.Errors[0])
	assert.Empty(t, got.Names)
}

func TestValidateDuplicatesIgnoreInnerWhitespace(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"01/07/2024,John  Paul,Doe",
		"01/07/2024,John Paul,Doe",
	))

	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0], "Duplicate name")
	assert.Contains(t, got.Errors[0], "appears 2 times")
	assert.Empty(t, got.Names)
}

func TestValidateMissingColumns(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,Name",
		"01/07/2024,John Smith",
	))

	assert.Equal(t, []string{`Missing required column "First Name"`, `Missing required column "Last Name"`}, got.Errors)
	assert.Empty(t, got.Names)
}

func TestValidateHeaderAnyOrderAndExtraColumns(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"",
		`"LAST NAME", Notes ,"first name",DATE`,
		`"Smith, Jr",hello,"Mary Ann",Jan 7 2024`,
		`Adams,,Zed,Jan 7 2024`,
		`adams,,amy,Jan 7 2024`,
	))

	require.Empty(t, got.Errors)
	assert.Equal(t, []AttendeeName{
		{FirstName: "amy", LastName: "adams", Date: "Jan 7 2024"},
		{FirstName: "Zed", LastName: "Adams", Date: "Jan 7 2024"},
		{FirstName: "Mary Ann", LastName: "Smith, Jr", Date: "Jan 7 2024"},
	}, got.Names)
	assert.Equal(t, "2024-01-07", got.TargetDate)
}

func TestValidateCollectsEveryRowError(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"01/07/2024,John,Doe",
		"01/07/2024,,Roe",
		"01/07/2024,Ann,",
		"01/07/2024",
		"01/07/2024,Bob,Stone",
	))

	assert.Equal(t, []string{
		`Row 3: missing first name for "Roe"`,
		`Row 4: missing last name for "Ann"`,
		"Row 5: expected at least 3 columns, found 1",
	}, got.Errors)
	assert.Empty(t, got.Names)
	assert.Empty(t, got.TargetDate)
}

func TestValidateUnparseableDate(t *testing.T) {
	got := newTestValidator().ValidateString(csvLines(
		"Date,First Name,Last Name",
		"someday,John,Doe",
	))

	assert.Equal(t, []string{`Row 2: invalid date "someday"`}, got.Errors)
}

func TestValidateEmptyInputs(t *testing.T) {
	v := newTestValidator()

	assert.Equal(t, []string{"CSV file is empty"}, v.ValidateString("").Errors)
	assert.Equal(t, []string{"CSV file has no attendee rows"}, v.ValidateString("Date,First Name,Last Name\n").Errors)
}

func TestValidateSkipsWhitespaceLinesBeforeHeader(t *testing.T) {
	got := newTestValidator().ValidateString("   \nDate,First Name,Last Name\n01/07/2024,John,Doe\n")

	require.True(t, got.Valid(), got.Errors)
	assert.Equal(t, "2024-01-07", got.TargetDate)
	require.Len(t, got.Names, 1)
	assert.Equal(t, "Doe", got.Names[0].LastName)

	assert.Equal(t, []string{"CSV file is empty"}, newTestValidator().ValidateString("  \n\t\n").Errors)
}

func TestValidateIsIdempotent(t *testing.T) {
	text := csvLines(
		"Date,First Name,Last Name",
		"1/7/2024,Zoe,Young",
		"1/7/2024,adam,baker",
		"1/7/2024,Carl,Baker",
	)
	v := newTestValidator()

	first := v.ValidateString(text)
	second := v.ValidateString(text)

	require.True(t, first.Valid())
	assert.Equal(t, first, second)
	assert.Equal(t, "adam", first.Names[0].FirstName)
	assert.Equal(t, "Carl", first.Names[1].FirstName)
	assert.Equal(t, "Zoe", first.Names[2].FirstName)
}
