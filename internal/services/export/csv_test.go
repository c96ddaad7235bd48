package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField(t *testing.T) {
	assert.Equal(t, "plain", Field("plain"))
	assert.Equal(t, " leading space", Field(" leading space"))
	assert.Equal(t, `"Smith, John"`, Field("Smith, John"))
	assert.Equal(t, `"say ""hi"""`, Field(`say "hi"`))
	assert.Equal(t, "\"two\nlines\"", Field("two\nlines"))
	assert.Equal(t, "", Field(""))
}

func TestDocumentReadsBackWithEncodingCSV(t *testing.T) {
	rows := []string{
		Row("Last Name", "First Name", "Status"),
		Row("O'Neil", "Mary, Jr", `the "guest"`),
	}

	records, err := csv.NewReader(strings.NewReader(string(Document(rows)))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Last Name", "First Name", "Status"},
		{"O'Neil", "Mary, Jr", `the "guest"`},
	}, records)
}

func TestDocumentEmpty(t *testing.T) {
	assert.Nil(t, Document(nil))
}
