package domain

// Label is a classification outcome for a search term
type Label string

// Coarse labels; a term may carry several at once
const (
	LabelScaleUp  Label = "scale_up"
	LabelBidDown  Label = "bid_down"
	LabelNegative Label = "negative"
	LabelHarvest  Label = "harvest"
)

// Fine decision tiers; exactly one per term
const (
	LabelGolden           Label = "golden"
	LabelKeepTesting      Label = "keep_testing"
	LabelFail             Label = "fail"
	LabelInsufficientData Label = "insufficient_data"
)

// Recommendation verdicts for lexicon suggestions
const (
	RecommendAddToPatterns = "ADD_TO_PATTERNS"
	RecommendReview        = "REVIEW"
)

// GenericHeuristicTag marks aggressive-mode matches against the built-in fallback list
const GenericHeuristicTag = "GENERIC_HEURISTIC"

// CoarseBuckets holds the non-exclusive coarse tier
type CoarseBuckets struct {
	ScaleUp   []TermRecord `json:"scaleUp"`
	BidDown   []TermRecord `json:"bidDown"`
	Negatives []TermRecord `json:"negatives"`
	Harvest   []TermRecord `json:"harvest"`
}

// Decision is a term with its fine-tier label
type Decision struct {
	TermRecord
	Label Label `json:"decision"`
}

// DecisionTiers holds the fine tier: every decision plus the
// presentation-sorted pass/test/fail subsets
type DecisionTiers struct {
	All  []Decision `json:"all"`
	Pass []Decision `json:"pass"`
	Test []Decision `json:"test"`
	Fail []Decision `json:"fail"`
}

// NegativeCandidate is a zero-order term matched by at least one pattern category
type NegativeCandidate struct {
	Campaign   string   `json:"campaign"`
	AdGroup    string   `json:"adGroup"`
	SearchTerm string   `json:"searchTerm"`
	Clicks     float64  `json:"clicks"`
	Orders     float64  `json:"orders"`
	CTR        float64  `json:"ctr"`
	Reasons    []string `json:"reasons"`
	MatchType  string   `json:"matchType"`
}

// NegativeUpload is an upload-ready negative keyword row
type NegativeUpload struct {
	Campaign  string `json:"campaign"`
	AdGroup   string `json:"adGroup"`
	Keyword   string `json:"keyword"`
	MatchType string `json:"matchType"`
}

// TokenSuggestion is a mined n-gram proposed for the negative pattern lists
type TokenSuggestion struct {
	Token          string   `json:"token"`
	BadFreq        int      `json:"badFreq"`
	GoodFreq       int      `json:"goodFreq"`
	Score          float64  `json:"score"`
	SampleTerms    []string `json:"sampleTerms"`
	Recommendation string   `json:"recommendation"`
}

// SKAGPlanRow suggests a single keyword ad group for a golden term
type SKAGPlanRow struct {
	CampaignName   string  `json:"campaignName"`
	AdGroupName    string  `json:"adGroupName"`
	MatchType      string  `json:"matchType"`
	Keyword        string  `json:"keyword"`
	StartBid       float64 `json:"startBid"`
	TopOfSearchAdj string  `json:"topOfSearchAdj"`
	Reason         string  `json:"reason"`
}

// NegativeExactRow is a decision-tier term proposed as a negative exact keyword
type NegativeExactRow struct {
	NegativeTerm string  `json:"negativeTerm"`
	Clicks       float64 `json:"clicks"`
	Orders       float64 `json:"orders"`
	Spend        float64 `json:"spend"`
	Sales        float64 `json:"sales"`
	ACOS         float64 `json:"acos"`
	MatchType    string  `json:"matchType"`
}

// ActionPlan is the restructuring output built from the decision tier
type ActionPlan struct {
	SKAG        []SKAGPlanRow      `json:"skag"`
	NegExact    []NegativeExactRow `json:"negExact"`
	PhraseRoots []string           `json:"phraseRoots"`
}
