package matching

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"

	"lcr-attendance-backend/internal/services/names"
)

// Ranked is one scored entry of a manual roster search.
type Ranked struct {
	Index    int     `json:"index"`
	Score    float64 `json:"score"`
	Distance int     `json:"distance"`
}

// Rank orders display names by similarity to query for the manual search box:
// Jaro-Winkler score descending, then edit distance ascending, then input order.
func Rank(query string, displayNames []string) []Ranked {
	q := names.Fold(query)

	ranked := make([]Ranked, len(displayNames))
	for i, n := range displayNames {
		folded := names.Fold(n)
		ranked[i] = Ranked{
			Index:    i,
			Score:    smetrics.JaroWinkler(q, folded, 0.7, 4),
			Distance: levenshtein.ComputeDistance(q, folded),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}
