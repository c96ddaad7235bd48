package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ParsedName
	}{
		{
			name: "comma separated",
			in:   "Smith, John Paul",
			want: ParsedName{FirstName: "john paul", LastName: "smith", FirstNamesArray: []string{"john", "paul"}},
		},
		{
			name: "family name first without comma",
			in:   "Smith John",
			want: ParsedName{FirstName: "john", LastName: "smith", FirstNamesArray: []string{"john"}},
		},
		{
			name: "extra whitespace",
			in:   "  Van Dyke ,   Mary    Ann  ",
			want: ParsedName{FirstName: "mary ann", LastName: "van dyke", FirstNamesArray: []string{"mary", "ann"}},
		},
		{
			name: "single token",
			in:   "Smith",
			want: ParsedName{FirstName: "", LastName: "smith", FirstNamesArray: []string{}},
		},
		{
			name: "comma with empty first part",
			in:   "Smith,",
			want: ParsedName{FirstName: "", LastName: "smith", FirstNamesArray: []string{}},
		},
		{
			name: "empty",
			in:   "   ",
			want: ParsedName{FirstNamesArray: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestFromParts(t *testing.T) {
	got := FromParts(" Jon ", "SMITH")
	assert.Equal(t, ParsedName{FirstName: "jon", LastName: "smith", FirstNamesArray: []string{"jon"}}, got)
}

func TestFoldIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, Fold("O'NEIL"), Fold("o'neil"))
	assert.Equal(t, "strasse", Fold("STRASSE"))
}
