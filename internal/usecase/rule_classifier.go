package usecase

import (
	"cmp"
	"math"
	"slices"

	"github.com/ppclens/backend/internal/domain"
)

// coarseNegativeClickFloor is the lowest click count the coarse negative bucket accepts
const coarseNegativeClickFloor = 30

// RuleClassifier buckets terms with threshold rules. The coarse tier is
// non-exclusive; the decision tier assigns exactly one label per term.
type RuleClassifier struct {
	rules    domain.RuleSettings
	decision domain.DecisionSettings
}

// NewRuleClassifier creates a classifier for one settings snapshot
func NewRuleClassifier(rules domain.RuleSettings, decision domain.DecisionSettings) *RuleClassifier {
	if decision.TestBand < 0 {
		decision.TestBand = 0
	}
	return &RuleClassifier{rules: rules, decision: decision}
}

// Coarse evaluates every coarse rule independently; a term can land in
// several buckets.
func (c *RuleClassifier) Coarse(terms []domain.TermRecord) domain.CoarseBuckets {
	b := domain.CoarseBuckets{
		ScaleUp:   []domain.TermRecord{},
		BidDown:   []domain.TermRecord{},
		Negatives: []domain.TermRecord{},
		Harvest:   []domain.TermRecord{},
	}
	negFloor := math.Max(coarseNegativeClickFloor, c.rules.MinClicks)

	for _, t := range terms {
		if t.ACOS < c.rules.TargetACOS && t.Orders >= c.rules.MinConversions {
			b.ScaleUp = append(b.ScaleUp, t)
		}
		if t.ACOS > c.rules.TargetACOS && t.Clicks >= c.rules.MinClicks {
			b.BidDown = append(b.BidDown, t)
		}
		if t.Clicks >= negFloor && t.Orders == 0 {
			b.Negatives = append(b.Negatives, t)
		}
		if t.CVR >= c.rules.HarvestThreshold {
			b.Harvest = append(b.Harvest, t)
		}
	}
	return b
}

// Decide returns the decision tier label for one term. Rules are applied in
// pass, test, fail order over an insufficient-data default and the last
// matching rule wins.
func (c *RuleClassifier) Decide(t domain.TermRecord) domain.Label {
	d := c.decision
	label := domain.LabelInsufficientData
	if t.Clicks < d.MinClicks {
		return label
	}

	ceiling := d.TargetACOS + d.TestBand
	if t.Orders >= d.MinOrders && t.ACOS <= d.TargetACOS {
		label = domain.LabelGolden
	}
	if t.Orders < d.MinOrders || (t.ACOS > d.TargetACOS && t.ACOS <= ceiling) {
		label = domain.LabelKeepTesting
	}
	if t.Orders < d.MinOrders && (t.ACOS > ceiling || (d.ZeroOrderFails && t.Orders == 0)) {
		label = domain.LabelFail
	}
	return label
}

// DecisionTiers labels every term and splits out the sorted pass, test and
// fail tables. The four labels partition the input.
func (c *RuleClassifier) DecisionTiers(terms []domain.TermRecord) domain.DecisionTiers {
	tiers := domain.DecisionTiers{
		All:  make([]domain.Decision, 0, len(terms)),
		Pass: []domain.Decision{},
		Test: []domain.Decision{},
		Fail: []domain.Decision{},
	}

	for _, t := range terms {
		d := domain.Decision{TermRecord: t, Label: c.Decide(t)}
		tiers.All = append(tiers.All, d)
		switch d.Label {
		case domain.LabelGolden:
			tiers.Pass = append(tiers.Pass, d)
		case domain.LabelKeepTesting:
			tiers.Test = append(tiers.Test, d)
		case domain.LabelFail:
			tiers.Fail = append(tiers.Fail, d)
		}
	}

	slices.SortStableFunc(tiers.Pass, func(a, b domain.Decision) int {
		return cmp.Or(cmp.Compare(a.ACOS, b.ACOS), cmp.Compare(b.Clicks, a.Clicks))
	})
	slices.SortStableFunc(tiers.Test, func(a, b domain.Decision) int {
		return cmp.Compare(b.Clicks, a.Clicks)
	})
	slices.SortStableFunc(tiers.Fail, func(a, b domain.Decision) int {
		return cmp.Or(cmp.Compare(b.ACOS, a.ACOS), cmp.Compare(b.Clicks, a.Clicks))
	})
	return tiers
}
