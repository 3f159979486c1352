package domain

// Settings is the analysis configuration snapshot passed into every
// pipeline component. It is read once per run and never mutated.
type Settings struct {
	Columns       map[string][]string  `mapstructure:"columns_map" json:"columnsMap"`
	Rules         RuleSettings         `mapstructure:"rules" json:"rules"`
	Decision      DecisionSettings     `mapstructure:"decision" json:"decision"`
	NegativesScan NegativeScanSettings `mapstructure:"negatives_scan" json:"negativesScan"`
	Lexicon       LexiconSettings      `mapstructure:"lexicon" json:"lexicon"`
	Plan          PlanSettings         `mapstructure:"plan" json:"plan"`
}

// RuleSettings drives the coarse tier
type RuleSettings struct {
	TargetACOS       float64 `mapstructure:"target_acos" json:"targetAcos"`
	MinClicks        float64 `mapstructure:"min_clicks" json:"minClicks"`
	MinConversions   float64 `mapstructure:"min_conversions" json:"minConversions"`
	HarvestThreshold float64 `mapstructure:"harvest_threshold" json:"harvestThreshold"`
}

// DecisionSettings drives the fine pass/test/fail tier
type DecisionSettings struct {
	TargetACOS     float64 `mapstructure:"target_acos" json:"targetAcos"`
	MinClicks      float64 `mapstructure:"min_clicks" json:"minClicks"`
	MinOrders      float64 `mapstructure:"min_orders" json:"minOrders"`
	TestBand       float64 `mapstructure:"test_band" json:"testBand"`
	ZeroOrderFails bool    `mapstructure:"zero_order_fails" json:"zeroOrderFails"`
}

// NegativeScanSettings drives the early negative scanner
type NegativeScanSettings struct {
	Mode             string              `mapstructure:"mode" json:"mode"`
	MinClicksNoOrder float64             `mapstructure:"min_clicks_no_order" json:"minClicksNoOrder"`
	MinCTR           float64             `mapstructure:"min_ctr" json:"minCtr"`
	MatchType        string              `mapstructure:"match_type" json:"matchType"`
	Patterns         map[string][]string `mapstructure:"patterns" json:"patterns"`
	PhraseRoots      []string            `mapstructure:"phrase_roots" json:"phraseRoots"`
}

// LexiconSettings drives the lexicon miner
type LexiconSettings struct {
	MinClicksForBad  float64  `mapstructure:"min_clicks_for_bad" json:"minClicksForBad"`
	MinClicksForGood float64  `mapstructure:"min_clicks_for_good" json:"minClicksForGood"`
	SuggestTopK      int      `mapstructure:"suggest_top_k" json:"suggestTopK"`
	NgramMax         int      `mapstructure:"ngram_max" json:"ngramMax"`
	MinBadFreq       int      `mapstructure:"min_bad_freq" json:"minBadFreq"`
	Whitelist        []string `mapstructure:"whitelist" json:"whitelist"`
	Stopwords        []string `mapstructure:"stopwords" json:"stopwords"`
}

// PlanSettings drives the SKAG plan and negative exact list
type PlanSettings struct {
	CampaignName     string  `mapstructure:"campaign_name" json:"campaignName"`
	AdGroupPrefix    string  `mapstructure:"ad_group_prefix" json:"adGroupPrefix"`
	MaxKeywordLength int     `mapstructure:"max_keyword_length" json:"maxKeywordLength"`
	MinBid           float64 `mapstructure:"min_bid" json:"minBid"`
	TopOfSearchAdj   string  `mapstructure:"top_of_search_adj" json:"topOfSearchAdj"`
	NegExactACOS     float64 `mapstructure:"neg_exact_acos" json:"negExactAcos"`
}

// Scan modes
const (
	ScanModeConservative = "conservative"
	ScanModeAggressive   = "aggressive"
)

// DefaultColumnAliases lists the header names seen across Amazon search term
// report exports, in lookup order
func DefaultColumnAliases() map[Field][]string {
	return map[Field][]string{
		FieldSearchTerm:  {"Customer Search Term", "Search Term", "Query"},
		FieldClicks:      {"Clicks"},
		FieldImpressions: {"Impressions"},
		FieldSpend:       {"Spend", "Cost"},
		FieldSales:       {"7 Day Total Sales", "14 Day Total Sales", "Total Sales", "Sales"},
		FieldOrders:      {"7 Day Total Orders (#)", "7 Day Total Units Ordered", "14 Day Total Orders (#)", "Orders"},
		FieldCampaign:    {"Campaign Name", "Campaign"},
		FieldAdGroup:     {"Ad Group Name", "Ad Group"},
		FieldCTR:         {"Click-Thru Rate (CTR)", "CTR"},
		FieldCPC:         {"Cost Per Click (CPC)", "CPC"},
		FieldACOS:        {"Total Advertising Cost of Sales (ACOS)", "ACOS", "ACoS"},
		FieldCVR:         {"7 Day Conversion Rate", "Conversion Rate", "CVR"},
	}
}

// DefaultSettings returns the settings used when the configuration omits a key
func DefaultSettings() Settings {
	return Settings{
		Columns: map[string][]string{},
		Rules: RuleSettings{
			TargetACOS:       0.50,
			MinClicks:        5,
			MinConversions:   1,
			HarvestThreshold: 0.05,
		},
		Decision: DecisionSettings{
			TargetACOS:     0.30,
			MinClicks:      20,
			MinOrders:      2,
			TestBand:       0.10,
			ZeroOrderFails: true,
		},
		NegativesScan: NegativeScanSettings{
			Mode:             ScanModeConservative,
			MinClicksNoOrder: 1,
			MatchType:        "negative exact",
			Patterns:         map[string][]string{},
		},
		Lexicon: LexiconSettings{
			MinClicksForBad:  1,
			MinClicksForGood: 1,
			SuggestTopK:      50,
			NgramMax:         2,
			MinBadFreq:       2,
		},
		Plan: PlanSettings{
			CampaignName:     "Exact - SKAG - Core",
			AdGroupPrefix:    "Exact - ",
			MaxKeywordLength: 70,
			MinBid:           0.05,
			TopOfSearchAdj:   "30%-50%",
			NegExactACOS:     0.50,
		},
	}
}
