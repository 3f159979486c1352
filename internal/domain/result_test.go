package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *AnalysisResult {
	golden := TermRecord{SearchTerm: "iphone 15 case", Clicks: 25, Orders: 3, Spend: 50, Sales: 200, ACOS: 0.25}
	return &AnalysisResult{
		ID:     "abc",
		Terms:  []TermRecord{golden},
		Coarse: CoarseBuckets{ScaleUp: []TermRecord{golden}},
		Decisions: DecisionTiers{
			All:  []Decision{{TermRecord: golden, Label: LabelGolden}},
			Pass: []Decision{{TermRecord: golden, Label: LabelGolden}},
		},
		EarlyNegatives: []NegativeCandidate{{
			Campaign: "C1", AdGroup: "A1", SearchTerm: "otterbox ipad", Clicks: 3,
			Reasons: []string{"COMPETITOR", "WRONG_DEVICE"},
		}},
		Lexicon: []TokenSuggestion{
			{Token: "otterbox", BadFreq: 3, Score: 3, SampleTerms: []string{"otterbox ipad", "otterbox"}, Recommendation: RecommendAddToPatterns},
			{Token: "case", BadFreq: 2, GoodFreq: 2, Score: 1, Recommendation: RecommendReview},
		},
		Plan: ActionPlan{PhraseRoots: []string{"free"}},
	}
}

func TestAnalysisResult_Table(t *testing.T) {
	r := sampleResult()

	tests := []struct {
		name     string
		table    string
		wantName string
		wantRows int
	}{
		{name: "exact name", table: TableAllTerms, wantName: TableAllTerms, wantRows: 1},
		{name: "case-insensitive", table: "to_exact_split", wantName: TableToExactSplit, wantRows: 1},
		{name: "empty bucket", table: TableBidDown, wantName: TableBidDown, wantRows: 0},
		{name: "phrase roots", table: TableNegPhraseRoots, wantName: TableNegPhraseRoots, wantRows: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := r.Table(tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, table.Name)
			assert.Len(t, table.Rows, tt.wantRows)
			for _, row := range table.Rows {
				assert.Len(t, row, len(table.Columns))
			}
		})
	}

	t.Run("unknown table", func(t *testing.T) {
		_, err := r.Table("Nope")
		assert.ErrorIs(t, err, ErrUnknownTable)
	})
}

func TestAnalysisResult_TableCells(t *testing.T) {
	r := sampleResult()

	early, err := r.Table(TableEarlyNegSource)
	require.NoError(t, err)
	require.Len(t, early.Rows, 1)
	assert.Equal(t, "COMPETITOR;WRONG_DEVICE", early.Rows[0][6])
	assert.Equal(t, 3, early.Rows[0][3])

	lex, err := r.Table(TableLexicon)
	require.NoError(t, err)
	assert.Equal(t, "otterbox ipad | otterbox", lex.Rows[0][4])

	analyzed, err := r.Table(TableAllAnalyzed)
	require.NoError(t, err)
	assert.Equal(t, "decision", analyzed.Columns[len(analyzed.Columns)-1])
	assert.Equal(t, "golden", analyzed.Rows[0][len(analyzed.Columns)-1])
}

func TestAnalysisResult_EmptyTableHasRows(t *testing.T) {
	table, err := sampleResult().Table(TableBidDown)
	require.NoError(t, err)
	assert.NotNil(t, table.Rows)

	body, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"rows":[]`)

	for _, table := range (&AnalysisResult{}).Tables() {
		assert.NotNil(t, table.Rows, table.Name)
	}
}

func TestAnalysisResult_Tables(t *testing.T) {
	tables := sampleResult().Tables()
	require.Len(t, tables, len(TableNames))
	for i, table := range tables {
		assert.Equal(t, TableNames[i], table.Name)
		assert.NotEmpty(t, table.Columns)
	}
}

func TestAnalysisResult_AddToPatternTokens(t *testing.T) {
	assert.Equal(t, []string{"otterbox"}, sampleResult().AddToPatternTokens())
	assert.Empty(t, (&AnalysisResult{}).AddToPatternTokens())
}
