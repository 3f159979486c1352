package usecase

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ppclens/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// currencyReplacer strips thousands separators, currency symbols and padding
// before a cell is parsed as a number
var currencyReplacer = strings.NewReplacer(",", "", "$", "", "€", "", "£", "", "¥", "", "₹", "", " ", "", " ", "")

// ColumnNormalizer maps report headers onto the canonical schema
type ColumnNormalizer struct {
	aliases map[domain.Field][]string
}

// NewColumnNormalizer creates a normalizer. Configured aliases replace the
// built-in list for their field; unknown field names are ignored.
func NewColumnNormalizer(configured map[string][]string) *ColumnNormalizer {
	aliases := domain.DefaultColumnAliases()
	for name, list := range configured {
		field := domain.Field(strings.ToLower(strings.TrimSpace(name)))
		if _, known := aliases[field]; !known || len(list) == 0 {
			continue
		}
		aliases[field] = append([]string(nil), list...)
	}
	return &ColumnNormalizer{aliases: aliases}
}

// Resolve returns the index of the header column that carries field.
// Aliases are tried in order and the first one present wins.
func (n *ColumnNormalizer) Resolve(header []string, field domain.Field) (int, bool) {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = headerKey(h)
	}
	return n.resolve(keys, field)
}

func (n *ColumnNormalizer) resolve(keys []string, field domain.Field) (int, bool) {
	for _, alias := range n.aliases[field] {
		want := headerKey(alias)
		if want == "" {
			continue
		}
		for i, k := range keys {
			if k == want {
				return i, true
			}
		}
	}
	return -1, false
}

// Normalize converts a raw report into term records. It never fails: absent
// columns read as zero or empty and unparseable cells coerce to zero.
func (n *ColumnNormalizer) Normalize(report *domain.RawReport) *domain.TermTable {
	table := &domain.TermTable{Present: make(map[domain.Field]bool)}
	if report == nil {
		return table
	}

	keys := make([]string, len(report.Header))
	for i, h := range report.Header {
		keys[i] = headerKey(h)
	}

	columns := make(map[domain.Field]int)
	for field := range n.aliases {
		if idx, ok := n.resolve(keys, field); ok {
			columns[field] = idx
		}
	}
	for _, f := range domain.MetricFields {
		if _, ok := columns[f]; ok {
			table.Present[f] = true
		}
	}

	table.Records = make([]domain.TermRecord, 0, len(report.Rows))
	for _, row := range report.Rows {
		if isBlankRow(row) {
			continue
		}
		text := func(f domain.Field) string {
			idx, ok := columns[f]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		num := func(f domain.Field) float64 {
			return ParseNumber(text(f))
		}

		table.Records = append(table.Records, domain.TermRecord{
			SearchTerm:  text(domain.FieldSearchTerm),
			Campaign:    text(domain.FieldCampaign),
			AdGroup:     text(domain.FieldAdGroup),
			Clicks:      num(domain.FieldClicks),
			Impressions: num(domain.FieldImpressions),
			Spend:       num(domain.FieldSpend),
			Sales:       num(domain.FieldSales),
			Orders:      num(domain.FieldOrders),
			CTR:         num(domain.FieldCTR),
			CPC:         num(domain.FieldCPC),
			ACOS:        num(domain.FieldACOS),
			CVR:         num(domain.FieldCVR),
		})
	}
	return table
}

// ParseNumber is a best-effort numeric parse of a report cell.
// "1,234.50" → 1234.5, "$2.10" → 2.1, "25%" → 0.25. Anything unparseable,
// negative or non-finite is 0.
func ParseNumber(cell string) float64 {
	s := currencyReplacer.Replace(strings.TrimSpace(cell))
	if s == "" {
		return 0
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if percent {
		v /= 100
	}
	return sanitize(v)
}

// sanitize enforces the non-negative finite metric invariant
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// headerKey folds a header for case and punctuation insensitive comparison
func headerKey(h string) string {
	h = norm.NFKC.String(strings.TrimSpace(h))
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
