package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "attendance.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	path := writeFile(t, "Date,First Name,Last Name\n2024-01-07,John,Smith\n")

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Date: 2024-01-07")
	assert.Contains(t, out, "Smith, John")
}

func TestValidateCommandRejects(t *testing.T) {
	path := writeFile(t, "Date,First Name,Last Name\n2024-01-08,John,Smith\n")

	out, err := run(t, "validate", path, "-o", "yaml")
	assert.ErrorIs(t, err, errInvalidFile)

	var res struct {
		Errors []string `yaml:"errors"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "not a Sunday")
}

func TestVariantsCommand(t *testing.T) {
	out, err := run(t, "variants", "123 Main St, City, ST 12345-6789")
	require.NoError(t, err)
	assert.Contains(t, out, "1. 123 Main St, City, ST 12345-6789\n")
	assert.Contains(t, out, "6. 123 Main St\n")
}

func TestMatchCommand(t *testing.T) {
	out, err := run(t, "match", "Jon Smith", "Smith, John Jon")
	require.NoError(t, err)
	assert.Equal(t, "match: Exact First Name\n", out)

	out, err = run(t, "match", "Jon Smith", "Jones, Jon", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"method": "No Match - Different Last Name"`)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "match", "a b", "b, a", "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")
}
