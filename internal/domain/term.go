package domain

// Field is a canonical column of a search-term report
type Field string

const (
	FieldSearchTerm  Field = "search_term"
	FieldCampaign    Field = "campaign"
	FieldAdGroup     Field = "ad_group"
	FieldClicks      Field = "clicks"
	FieldImpressions Field = "impressions"
	FieldSpend       Field = "spend"
	FieldSales       Field = "sales"
	FieldOrders      Field = "orders"
	FieldCTR         Field = "ctr"
	FieldCPC         Field = "cpc"
	FieldACOS        Field = "acos"
	FieldCVR         Field = "cvr"
)

// TextFields are resolved as strings and default to ""
var TextFields = []Field{FieldSearchTerm, FieldCampaign, FieldAdGroup}

// CountFields are the raw numeric fields and default to 0
var CountFields = []Field{FieldClicks, FieldImpressions, FieldSpend, FieldSales, FieldOrders}

// MetricFields are derived; a report may already carry them
var MetricFields = []Field{FieldCTR, FieldCPC, FieldACOS, FieldCVR}

// RawReport is an uploaded report before column normalization.
// Rows may be ragged; missing cells read as empty.
type RawReport struct {
	Source string     `json:"source,omitempty"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// TermRecord is one search term row on the canonical schema
type TermRecord struct {
	SearchTerm  string  `json:"searchTerm"`
	Campaign    string  `json:"campaign"`
	AdGroup     string  `json:"adGroup"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Spend       float64 `json:"spend"`
	Sales       float64 `json:"sales"`
	Orders      float64 `json:"orders"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	ACOS        float64 `json:"acos"`
	CVR         float64 `json:"cvr"`
}

// TermTable is a normalized report. Present records which metric columns
// came from the report itself so they are not recomputed.
type TermTable struct {
	Records []TermRecord   `json:"records"`
	Present map[Field]bool `json:"-"`
}

// HasMetric reports whether the source report already carried the metric
func (t *TermTable) HasMetric(f Field) bool {
	return t.Present != nil && t.Present[f]
}
