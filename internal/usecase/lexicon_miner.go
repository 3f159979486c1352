package usecase

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ppclens/backend/internal/domain"
)

const (
	// goodFrequencyPenalty weighs occurrences in converting terms against a gram
	goodFrequencyPenalty = 0.5
	minGramLength        = 3
	maxSampleTerms       = 3
	defaultSuggestTopK   = 50
	defaultNgramMax      = 2
)

// LexiconMiner contrasts n-gram frequencies between zero-order and
// converting terms to propose new negative pattern roots
type LexiconMiner struct {
	minClicksBad  float64
	minClicksGood float64
	topK          int
	ngramMax      int
	minBadFreq    int
	whitelist     map[string]bool
	stopwords     map[string]bool
	existing      map[string]bool
}

// gramCounts is the result of folding a term list into n-gram frequencies.
// order keeps first-occurrence order so ties sort deterministically.
type gramCounts struct {
	freq  map[string]int
	order []string
}

// NewLexiconMiner creates a miner. patterns are the configured negative
// pattern categories; grams already listed there are never suggested.
func NewLexiconMiner(cfg domain.LexiconSettings, patterns map[string][]string) *LexiconMiner {
	m := &LexiconMiner{
		minClicksBad:  cfg.MinClicksForBad,
		minClicksGood: cfg.MinClicksForGood,
		topK:          cfg.SuggestTopK,
		ngramMax:      cfg.NgramMax,
		minBadFreq:    cfg.MinBadFreq,
		whitelist:     lowerSet(cfg.Whitelist),
		stopwords:     lowerSet(cfg.Stopwords),
		existing:      make(map[string]bool),
	}
	if m.topK <= 0 {
		m.topK = defaultSuggestTopK
	}
	if m.ngramMax <= 0 {
		m.ngramMax = defaultNgramMax
	}
	for _, list := range patterns {
		for _, p := range list {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				m.existing[p] = true
			}
		}
	}
	return m
}

// Mine returns the top-K token suggestions sorted by score then bad frequency
func (m *LexiconMiner) Mine(terms []domain.TermRecord) []domain.TokenSuggestion {
	var bad, good []string
	for _, t := range terms {
		switch {
		case t.Clicks >= m.minClicksBad && t.Orders == 0:
			bad = append(bad, t.SearchTerm)
		case t.Clicks >= m.minClicksGood && t.Orders > 0:
			good = append(good, t.SearchTerm)
		}
	}
	if len(bad) == 0 {
		return []domain.TokenSuggestion{}
	}

	badTokens := tokenizeAll(bad)
	badCounts := m.fold(badTokens)
	goodCounts := m.fold(tokenizeAll(good))

	suggestions := []domain.TokenSuggestion{}
	for _, gram := range badCounts.order {
		bf := badCounts.freq[gram]
		if bf < m.minBadFreq || m.whitelist[gram] || m.existing[gram] {
			continue
		}
		gf := goodCounts.freq[gram]

		recommendation := domain.RecommendReview
		if gf == 0 {
			recommendation = domain.RecommendAddToPatterns
		}
		suggestions = append(suggestions, domain.TokenSuggestion{
			Token:          gram,
			BadFreq:        bf,
			GoodFreq:       gf,
			Score:          float64(bf) - goodFrequencyPenalty*float64(gf),
			SampleTerms:    sampleTerms(bad, badTokens, gram),
			Recommendation: recommendation,
		})
	}

	// Stable sort over first-occurrence order keeps ties reproducible
	slices.SortStableFunc(suggestions, func(a, b domain.TokenSuggestion) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(b.BadFreq, a.BadFreq))
	})
	if len(suggestions) > m.topK {
		suggestions = suggestions[:m.topK]
	}
	return suggestions
}

// fold counts every kept n-gram of every tokenized term
func (m *LexiconMiner) fold(tokenized [][]string) gramCounts {
	counts := gramCounts{freq: make(map[string]int)}
	for _, tokens := range tokenized {
		for _, g := range Ngrams(tokens, m.ngramMax) {
			if m.stopwords[g] || utf8.RuneCountInString(g) < minGramLength {
				continue
			}
			if counts.freq[g] == 0 {
				counts.order = append(counts.order, g)
			}
			counts.freq[g]++
		}
	}
	return counts
}

func sampleTerms(terms []string, tokenized [][]string, gram string) []string {
	samples := make([]string, 0, maxSampleTerms)
	for i, tokens := range tokenized {
		if containsSpan(tokens, gram) {
			samples = append(samples, terms[i])
			if len(samples) == maxSampleTerms {
				break
			}
		}
	}
	return samples
}

func tokenizeAll(terms []string) [][]string {
	out := make([][]string, len(terms))
	for i, s := range terms {
		out[i] = Tokenize(s)
	}
	return out
}

func lowerSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = true
		}
	}
	return set
}
