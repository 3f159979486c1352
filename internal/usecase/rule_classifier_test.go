package usecase

import (
	"testing"

	"github.com/ppclens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier() *RuleClassifier {
	st := domain.DefaultSettings()
	return NewRuleClassifier(st.Rules, st.Decision)
}

func searchTerms(records []domain.TermRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SearchTerm
	}
	return out
}

func decisionTerms(decisions []domain.Decision) []string {
	out := make([]string, len(decisions))
	for i, d := range decisions {
		out[i] = d.SearchTerm
	}
	return out
}

func TestRuleClassifier_Coarse(t *testing.T) {
	terms := []domain.TermRecord{
		{SearchTerm: "winner", Clicks: 10, Orders: 2, ACOS: 0.2, CVR: 0.2},
		{SearchTerm: "expensive", Clicks: 10, Orders: 1, ACOS: 0.8, CVR: 0.1},
		{SearchTerm: "money pit", Clicks: 40, Orders: 0},
		{SearchTerm: "few clicks no orders", Clicks: 10, Orders: 0},
		{SearchTerm: "at target", Clicks: 10, Orders: 1, ACOS: 0.5, CVR: 0.01},
	}

	b := defaultClassifier().Coarse(terms)

	assert.Equal(t, []string{"winner"}, searchTerms(b.ScaleUp))
	assert.Equal(t, []string{"expensive"}, searchTerms(b.BidDown))
	assert.Equal(t, []string{"money pit"}, searchTerms(b.Negatives), "negative bucket needs at least 30 clicks")
	assert.Equal(t, []string{"winner", "expensive"}, searchTerms(b.Harvest))
}

func TestRuleClassifier_CoarseNegativeFloorFollowsMinClicks(t *testing.T) {
	st := domain.DefaultSettings()
	st.Rules.MinClicks = 50
	c := NewRuleClassifier(st.Rules, st.Decision)

	b := c.Coarse([]domain.TermRecord{
		{SearchTerm: "forty", Clicks: 40},
		{SearchTerm: "sixty", Clicks: 60},
	})
	assert.Equal(t, []string{"sixty"}, searchTerms(b.Negatives))
}

func TestRuleClassifier_CoarseEmptyInput(t *testing.T) {
	b := defaultClassifier().Coarse(nil)
	assert.NotNil(t, b.ScaleUp)
	assert.Empty(t, b.ScaleUp)
	assert.Empty(t, b.Negatives)
}

func TestRuleClassifier_Decide(t *testing.T) {
	tests := []struct {
		name string
		term domain.TermRecord
		want domain.Label
	}{
		{
			name: "golden term",
			term: domain.TermRecord{Clicks: 25, Orders: 3, Spend: 50, Sales: 200, ACOS: 0.25},
			want: domain.LabelGolden,
		},
		{
			name: "zero orders with zero sales fails",
			term: domain.TermRecord{Clicks: 25, Orders: 0, Spend: 30, ACOS: 0},
			want: domain.LabelFail,
		},
		{
			name: "below click floor",
			term: domain.TermRecord{Clicks: 19, Orders: 5, ACOS: 0.1},
			want: domain.LabelInsufficientData,
		},
		{
			name: "inside test band",
			term: domain.TermRecord{Clicks: 25, Orders: 3, ACOS: 0.35},
			want: domain.LabelKeepTesting,
		},
		{
			name: "too few orders at good acos",
			term: domain.TermRecord{Clicks: 25, Orders: 1, ACOS: 0.2},
			want: domain.LabelKeepTesting,
		},
		{
			name: "one order above the band fails",
			term: domain.TermRecord{Clicks: 25, Orders: 1, ACOS: 0.9},
			want: domain.LabelFail,
		},
		{
			name: "enough orders above the band is not judged",
			term: domain.TermRecord{Clicks: 25, Orders: 3, ACOS: 0.9},
			want: domain.LabelInsufficientData,
		},
		{
			name: "acos exactly at target passes",
			term: domain.TermRecord{Clicks: 20, Orders: 2, ACOS: 0.30},
			want: domain.LabelGolden,
		},
	}

	c := defaultClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Decide(tt.term))
		})
	}
}

func TestRuleClassifier_DecideWithoutZeroOrderRule(t *testing.T) {
	st := domain.DefaultSettings()
	st.Decision.ZeroOrderFails = false
	c := NewRuleClassifier(st.Rules, st.Decision)

	got := c.Decide(domain.TermRecord{Clicks: 25, Orders: 0, ACOS: 0})
	assert.Equal(t, domain.LabelKeepTesting, got)
}

func TestRuleClassifier_DecisionTiersPartition(t *testing.T) {
	var terms []domain.TermRecord
	for clicks := 0.0; clicks <= 40; clicks += 5 {
		for orders := 0.0; orders <= 4; orders++ {
			for _, acos := range []float64{0, 0.1, 0.3, 0.35, 0.4, 0.41, 2} {
				terms = append(terms, domain.TermRecord{Clicks: clicks, Orders: orders, ACOS: acos})
			}
		}
	}

	tiers := defaultClassifier().DecisionTiers(terms)
	require.Len(t, tiers.All, len(terms))

	counts := map[domain.Label]int{}
	for _, d := range tiers.All {
		counts[d.Label]++
	}
	assert.Equal(t, counts[domain.LabelGolden], len(tiers.Pass))
	assert.Equal(t, counts[domain.LabelKeepTesting], len(tiers.Test))
	assert.Equal(t, counts[domain.LabelFail], len(tiers.Fail))
	assert.Equal(t, len(terms),
		counts[domain.LabelGolden]+counts[domain.LabelKeepTesting]+counts[domain.LabelFail]+counts[domain.LabelInsufficientData])
	assert.Len(t, counts, 4, "every label is reachable")
}

func TestRuleClassifier_DecisionTiersSortOrder(t *testing.T) {
	terms := []domain.TermRecord{
		{SearchTerm: "pass b", Clicks: 30, Orders: 3, ACOS: 0.2},
		{SearchTerm: "pass a", Clicks: 40, Orders: 3, ACOS: 0.2},
		{SearchTerm: "pass c", Clicks: 50, Orders: 3, ACOS: 0.1},
		{SearchTerm: "test small", Clicks: 21, Orders: 1, ACOS: 0.1},
		{SearchTerm: "test big", Clicks: 60, Orders: 1, ACOS: 0.1},
		{SearchTerm: "fail mild", Clicks: 30, Orders: 1, ACOS: 0.5},
		{SearchTerm: "fail zero", Clicks: 90, Orders: 0, ACOS: 0},
		{SearchTerm: "fail bad", Clicks: 25, Orders: 1, ACOS: 1.5},
		{SearchTerm: "tie first", Clicks: 25, Orders: 0},
		{SearchTerm: "tie second", Clicks: 25, Orders: 0},
	}

	tiers := defaultClassifier().DecisionTiers(terms)

	assert.Equal(t, []string{"pass c", "pass a", "pass b"}, decisionTerms(tiers.Pass))
	assert.Equal(t, []string{"test big", "test small"}, decisionTerms(tiers.Test))
	assert.Equal(t, []string{"fail bad", "fail mild", "fail zero", "tie first", "tie second"}, decisionTerms(tiers.Fail))
	assert.Equal(t, "pass b", tiers.All[0].SearchTerm, "All keeps report order")
}
