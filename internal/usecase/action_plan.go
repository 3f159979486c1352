package usecase

import (
	"math"
	"strings"

	"github.com/ppclens/backend/internal/domain"
)

const (
	skagMatchType     = "Exact"
	negExactMatchType = "Negative Exact"
	skagReason        = "golden term split into its own exact ad group"

	// fallbackCPC seeds the start bid when the report has no CPC for a term
	fallbackCPC = 0.30
)

// ActionPlanBuilder turns the decision tier into restructuring rows
type ActionPlanBuilder struct {
	plan        domain.PlanSettings
	minClicks   float64
	phraseRoots []string
}

// NewActionPlanBuilder creates a builder. minClicks is the decision tier click
// floor used for negative exact candidates.
func NewActionPlanBuilder(plan domain.PlanSettings, minClicks float64, phraseRoots []string) *ActionPlanBuilder {
	defaults := domain.DefaultSettings().Plan
	if plan.MaxKeywordLength <= 0 {
		plan.MaxKeywordLength = defaults.MaxKeywordLength
	}
	if plan.MinBid <= 0 {
		plan.MinBid = defaults.MinBid
	}

	roots := []string{}
	for _, r := range phraseRoots {
		if r = strings.TrimSpace(r); r != "" {
			roots = append(roots, r)
		}
	}
	return &ActionPlanBuilder{plan: plan, minClicks: minClicks, phraseRoots: roots}
}

// Build produces one SKAG row per golden term, the negative exact list and
// the configured phrase roots
func (b *ActionPlanBuilder) Build(tiers domain.DecisionTiers) domain.ActionPlan {
	plan := domain.ActionPlan{
		SKAG:        make([]domain.SKAGPlanRow, 0, len(tiers.Pass)),
		NegExact:    []domain.NegativeExactRow{},
		PhraseRoots: b.phraseRoots,
	}

	for _, d := range tiers.Pass {
		kw := strings.TrimSpace(d.SearchTerm)
		plan.SKAG = append(plan.SKAG, domain.SKAGPlanRow{
			CampaignName:   b.plan.CampaignName,
			AdGroupName:    b.plan.AdGroupPrefix + truncateRunes(kw, b.plan.MaxKeywordLength),
			MatchType:      skagMatchType,
			Keyword:        kw,
			StartBid:       b.StartBid(d.CPC),
			TopOfSearchAdj: b.plan.TopOfSearchAdj,
			Reason:         skagReason,
		})
	}

	for _, d := range tiers.All {
		if d.Clicks < b.minClicks || (d.Orders != 0 && d.ACOS <= b.plan.NegExactACOS) {
			continue
		}
		plan.NegExact = append(plan.NegExact, domain.NegativeExactRow{
			NegativeTerm: d.SearchTerm,
			Clicks:       d.Clicks,
			Orders:       d.Orders,
			Spend:        d.Spend,
			Sales:        d.Sales,
			ACOS:         d.ACOS,
			MatchType:    negExactMatchType,
		})
	}
	return plan
}

// StartBid is the term's CPC rounded to cents, floored at the minimum bid.
// A zero CPC starts from fallbackCPC.
func (b *ActionPlanBuilder) StartBid(cpc float64) float64 {
	if cpc <= 0 {
		cpc = fallbackCPC
	}
	return math.Max(b.plan.MinBid, math.Round(cpc*100)/100)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
