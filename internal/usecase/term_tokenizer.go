package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nonWordPattern matches runs of anything that is not a letter or digit.
// Underscores count as separators.
var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Tokenize lower-cases a search term, collapses every non-word run into a
// single space and splits on whitespace
func Tokenize(term string) []string {
	if term == "" {
		return nil
	}
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(norm.NFKC.String(term)), " ")
	return strings.Fields(cleaned)
}

// Ngrams returns every contiguous span of 1..maxN tokens joined by a space,
// shorter spans first
func Ngrams(tokens []string, maxN int) []string {
	if maxN < 1 {
		maxN = 1
	}
	grams := make([]string, 0, len(tokens)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// containsSpan reports whether gram occurs as whole tokens inside tokens
func containsSpan(tokens []string, gram string) bool {
	return strings.Contains(" "+strings.Join(tokens, " ")+" ", " "+gram+" ")
}
