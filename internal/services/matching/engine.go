package matching

import (
	"strings"

	"lcr-attendance-backend/internal/services/names"
)

// Match methods, in the order they are tried.
const (
	MethodExactFirstName          = "Exact First Name"
	MethodTargetIncludesCandidate = "Target Includes Candidate (Relaxed)"
	MethodCandidateIncludesTarget = "Candidate Includes Target (Relaxed)"
	MethodLevenshteinOne          = "Levenshtein = 1 (Same First Letter)"
	MethodNoMatch                 = "No Match"
	MethodDifferentLastName       = "No Match - Different Last Name"
)

// relaxedLengthSlack bounds how much longer the containing name may be in the
// relaxed include strategies.
const relaxedLengthSlack = 3

type MatchResult struct {
	IsMatch bool   `json:"isMatch"`
	Method  string `json:"method"`
}

// MatchNames compares an attendee (candidate) against a roster entry (target).
// Last names must be equal; the first-name strategies run cheapest first and
// the first one that succeeds wins.
func MatchNames(candidate, target names.ParsedName) MatchResult {
	if names.Fold(candidate.LastName) != names.Fold(target.LastName) {
		return MatchResult{Method: MethodDifferentLastName}
	}

	cand := names.Fold(candidate.FirstName)
	targ := names.Fold(target.FirstName)

	for _, fn := range target.FirstNamesArray {
		if cand == names.Fold(fn) {
			return MatchResult{IsMatch: true, Method: MethodExactFirstName}
		}
	}

	candLen := len([]rune(cand))
	targLen := len([]rune(targ))

	if strings.Contains(targ, cand) &&
		abs(targLen-candLen) <= relaxedLengthSlack &&
		candLen >= targLen-relaxedLengthSlack &&
		candLen > 1 {
		return MatchResult{IsMatch: true, Method: MethodTargetIncludesCandidate}
	}

	if strings.Contains(cand, targ) &&
		abs(candLen-targLen) <= relaxedLengthSlack &&
		targLen >= candLen-relaxedLengthSlack &&
		targLen > 1 {
		return MatchResult{IsMatch: true, Method: MethodCandidateIncludesTarget}
	}

	if candLen > 0 && targLen > 0 &&
		[]rune(cand)[0] == []rune(targ)[0] &&
		EditDistance(cand, targ) == 1 {
		return MatchResult{IsMatch: true, Method: MethodLevenshteinOne}
	}

	return MatchResult{Method: MethodNoMatch}
}

// EditDistance is the Levenshtein distance between a and b, counted in runes.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	dp := make([][]int, len(ra)+1)
	for i := range dp {
		dp[i] = make([]int, len(rb)+1)
	}

	for i := 0; i <= len(ra); i++ {
		dp[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		dp[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			dp[i][j] = min(
				dp[i-1][j]+1,
				dp[i][j-1]+1,
				dp[i-1][j-1]+cost,
			)
		}
	}
	return dp[len(ra)][len(rb)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
