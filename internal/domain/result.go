package domain

import (
	"fmt"
	"strings"
)

// Result table identifiers, in rendering order
const (
	TableAllTerms       = "All_Terms"
	TableScaleUp        = "Scale_Up"
	TableBidDown        = "Bid_Down"
	TableNegatives      = "Negatives"
	TableHarvest        = "Harvest"
	TableEarlyNegSource = "Early_Negatives_Source"
	TableEarlyNegUpload = "Early_Negatives_Upload"
	TableLexicon        = "Lexicon_Suggestions"
	TableAllAnalyzed    = "All_Analyzed"
	TableToExactSplit   = "To_Exact_Split"
	TableKeepTesting    = "Keep_Testing"
	TableBidDownOrNeg   = "BidDown_or_Neg"
	TableSKAGPlan       = "SKAG_Plan"
	TableNegExact       = "Neg_Exact"
	TableNegPhraseRoots = "Neg_Phrase_Roots"
)

// TableNames lists every result table in rendering order
var TableNames = []string{
	TableAllTerms, TableScaleUp, TableBidDown, TableNegatives, TableHarvest,
	TableEarlyNegSource, TableEarlyNegUpload, TableLexicon,
	TableAllAnalyzed, TableToExactSplit, TableKeepTesting, TableBidDownOrNeg,
	TableSKAGPlan, TableNegExact, TableNegPhraseRoots,
}

// Table is a named tabular result. Cells hold string, float64 or int values.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Summary counts the rows that landed in each output
type Summary struct {
	Terms              int `json:"terms"`
	ScaleUp            int `json:"scaleUp"`
	BidDown            int `json:"bidDown"`
	Negatives          int `json:"negatives"`
	Harvest            int `json:"harvest"`
	Golden             int `json:"golden"`
	KeepTesting        int `json:"keepTesting"`
	Fail               int `json:"fail"`
	InsufficientData   int `json:"insufficientData"`
	EarlyNegatives     int `json:"earlyNegatives"`
	LexiconSuggestions int `json:"lexiconSuggestions"`
	SKAGRows           int `json:"skagRows"`
	NegExact           int `json:"negExact"`
}

// AnalysisResult is everything one pipeline run produces for a report
type AnalysisResult struct {
	ID              string              `json:"id"`
	Source          string              `json:"source,omitempty"`
	Summary         Summary             `json:"summary"`
	Terms           []TermRecord        `json:"terms"`
	Coarse          CoarseBuckets       `json:"coarse"`
	Decisions       DecisionTiers       `json:"decisions"`
	EarlyNegatives  []NegativeCandidate `json:"earlyNegatives"`
	NegativeUploads []NegativeUpload    `json:"negativeUploads"`
	Lexicon         []TokenSuggestion   `json:"lexicon"`
	Plan            ActionPlan          `json:"plan"`
}

// AddToPatternTokens returns the lexicon tokens recommended for the pattern lists
func (r *AnalysisResult) AddToPatternTokens() []string {
	var tokens []string
	for _, s := range r.Lexicon {
		if s.Recommendation == RecommendAddToPatterns {
			tokens = append(tokens, s.Token)
		}
	}
	return tokens
}

// Tables renders every result table in TableNames order
func (r *AnalysisResult) Tables() []Table {
	tables := make([]Table, 0, len(TableNames))
	for _, name := range TableNames {
		t, _ := r.Table(name)
		tables = append(tables, t)
	}
	return tables
}

// Table renders a single result table by identifier (case-insensitive).
// An empty table has zero rows, never nil.
func (r *AnalysisResult) Table(name string) (Table, error) {
	t, err := r.render(name)
	if err != nil {
		return Table{}, err
	}
	if t.Rows == nil {
		t.Rows = [][]any{}
	}
	return t, nil
}

func (r *AnalysisResult) render(name string) (Table, error) {
	for _, known := range TableNames {
		if strings.EqualFold(known, name) {
			name = known
			break
		}
	}

	switch name {
	case TableAllTerms:
		return termTable(name, r.Terms), nil
	case TableScaleUp:
		return termTable(name, r.Coarse.ScaleUp), nil
	case TableBidDown:
		return termTable(name, r.Coarse.BidDown), nil
	case TableNegatives:
		return termTable(name, r.Coarse.Negatives), nil
	case TableHarvest:
		return termTable(name, r.Coarse.Harvest), nil
	case TableEarlyNegSource:
		t := Table{Name: name, Columns: []string{"Campaign Name", "Ad Group Name", "Customer Search Term", "Clicks", "Orders", "CTR", "Reason"}}
		for _, c := range r.EarlyNegatives {
			t.Rows = append(t.Rows, []any{c.Campaign, c.AdGroup, c.SearchTerm, int(c.Clicks), int(c.Orders), c.CTR, strings.Join(c.Reasons, ";")})
		}
		return t, nil
	case TableEarlyNegUpload:
		t := Table{Name: name, Columns: []string{"Campaign Name", "Ad Group Name", "Negative Keyword", "Match Type"}}
		for _, u := range r.NegativeUploads {
			t.Rows = append(t.Rows, []any{u.Campaign, u.AdGroup, u.Keyword, u.MatchType})
		}
		return t, nil
	case TableLexicon:
		t := Table{Name: name, Columns: []string{"Token", "BadFreq", "GoodFreq", "Score", "SampleTerms", "Recommendation"}}
		for _, s := range r.Lexicon {
			t.Rows = append(t.Rows, []any{s.Token, s.BadFreq, s.GoodFreq, s.Score, strings.Join(s.SampleTerms, " | "), s.Recommendation})
		}
		return t, nil
	case TableAllAnalyzed:
		return decisionTable(name, r.Decisions.All), nil
	case TableToExactSplit:
		return decisionTable(name, r.Decisions.Pass), nil
	case TableKeepTesting:
		return decisionTable(name, r.Decisions.Test), nil
	case TableBidDownOrNeg:
		return decisionTable(name, r.Decisions.Fail), nil
	case TableSKAGPlan:
		t := Table{Name: name, Columns: []string{"Campaign Name", "Ad Group Name", "Match Type", "Keyword", "Start Bid", "Top of Search Adj", "Reason"}}
		for _, p := range r.Plan.SKAG {
			t.Rows = append(t.Rows, []any{p.CampaignName, p.AdGroupName, p.MatchType, p.Keyword, p.StartBid, p.TopOfSearchAdj, p.Reason})
		}
		return t, nil
	case TableNegExact:
		t := Table{Name: name, Columns: []string{"Negative Term", "clicks", "orders", "spend", "sales", "acos", "Match Type"}}
		for _, n := range r.Plan.NegExact {
			t.Rows = append(t.Rows, []any{n.NegativeTerm, n.Clicks, n.Orders, n.Spend, n.Sales, n.ACOS, n.MatchType})
		}
		return t, nil
	case TableNegPhraseRoots:
		t := Table{Name: name, Columns: []string{"Negative Phrase Root"}}
		for _, root := range r.Plan.PhraseRoots {
			t.Rows = append(t.Rows, []any{root})
		}
		return t, nil
	}
	return Table{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

var termColumns = []string{
	"search_term", "campaign", "ad_group",
	"clicks", "impressions", "spend", "sales", "orders",
	"ctr", "cpc", "acos", "cvr",
}

func termRow(t TermRecord) []any {
	return []any{
		t.SearchTerm, t.Campaign, t.AdGroup,
		t.Clicks, t.Impressions, t.Spend, t.Sales, t.Orders,
		t.CTR, t.CPC, t.ACOS, t.CVR,
	}
}

func termTable(name string, terms []TermRecord) Table {
	t := Table{Name: name, Columns: termColumns}
	for _, term := range terms {
		t.Rows = append(t.Rows, termRow(term))
	}
	return t
}

func decisionTable(name string, decisions []Decision) Table {
	t := Table{Name: name, Columns: append(append([]string{}, termColumns...), "decision")}
	for _, d := range decisions {
		t.Rows = append(t.Rows, append(termRow(d.TermRecord), string(d.Label)))
	}
	return t
}
