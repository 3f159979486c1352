package usecase

import (
	"slices"
	"strings"

	"github.com/ppclens/backend/internal/domain"
)

// genericFallbackRoots are flagged in aggressive mode when no configured pattern matched
var genericFallbackRoots = []string{"pad", "belt", "starter", "bundle"}

// NegativeScanner flags zero-order terms that contain a configured keyword root
type NegativeScanner struct {
	aggressive bool
	minClicks  float64
	minCTR     float64
	matchType  string
	categories []patternCategory
}

type patternCategory struct {
	tag      string
	patterns []string
}

// NewNegativeScanner creates a scanner. Blank patterns are ignored and a nil
// pattern dictionary disables pattern matching.
func NewNegativeScanner(cfg domain.NegativeScanSettings) *NegativeScanner {
	s := &NegativeScanner{
		aggressive: strings.EqualFold(strings.TrimSpace(cfg.Mode), domain.ScanModeAggressive),
		minClicks:  cfg.MinClicksNoOrder,
		minCTR:     cfg.MinCTR,
		matchType:  cfg.MatchType,
	}
	if s.matchType == "" {
		s.matchType = domain.DefaultSettings().NegativesScan.MatchType
	}

	for tag, list := range cfg.Patterns {
		cat := patternCategory{tag: tag}
		for _, p := range list {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				cat.patterns = append(cat.patterns, p)
			}
		}
		if len(cat.patterns) > 0 {
			s.categories = append(s.categories, cat)
		}
	}
	slices.SortFunc(s.categories, func(a, b patternCategory) int {
		return strings.Compare(a.tag, b.tag)
	})
	return s
}

// Scan returns the audit rows and their upload-ready counterparts, 1:1 and
// in report order.
func (s *NegativeScanner) Scan(terms []domain.TermRecord) ([]domain.NegativeCandidate, []domain.NegativeUpload) {
	candidates := []domain.NegativeCandidate{}
	uploads := []domain.NegativeUpload{}

	for _, t := range terms {
		if t.Clicks < s.minClicks || t.Orders != 0 {
			continue
		}
		if s.minCTR > 0 && t.CTR < s.minCTR {
			continue
		}

		reasons := s.Reasons(t.SearchTerm)
		if len(reasons) == 0 {
			continue
		}

		candidates = append(candidates, domain.NegativeCandidate{
			Campaign:   t.Campaign,
			AdGroup:    t.AdGroup,
			SearchTerm: t.SearchTerm,
			Clicks:     t.Clicks,
			Orders:     t.Orders,
			CTR:        t.CTR,
			Reasons:    reasons,
			MatchType:  s.matchType,
		})
		uploads = append(uploads, domain.NegativeUpload{
			Campaign:  t.Campaign,
			AdGroup:   t.AdGroup,
			Keyword:   t.SearchTerm,
			MatchType: s.matchType,
		})
	}
	return candidates, uploads
}

// Reasons returns the sorted, deduplicated category tags whose patterns
// occur in term
func (s *NegativeScanner) Reasons(term string) []string {
	lower := strings.ToLower(term)
	var reasons []string
	for _, cat := range s.categories {
		for _, p := range cat.patterns {
			if strings.Contains(lower, p) {
				reasons = append(reasons, cat.tag)
				break
			}
		}
	}

	if s.aggressive && len(reasons) == 0 {
		for _, g := range genericFallbackRoots {
			if strings.Contains(lower, g) {
				reasons = append(reasons, domain.GenericHeuristicTag)
				break
			}
		}
	}

	slices.Sort(reasons)
	return slices.Compact(reasons)
}
