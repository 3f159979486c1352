package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppclens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleReport = "Customer Search Term,Clicks,Impressions,Spend,7 Day Total Sales,7 Day Total Orders (#)\n" +
	"iphone 15 case,25,1000,50,200,3\n" +
	"fits my phone case,25,400,20,0,0\n" +
	"fits my phone case blue,25,400,20,0,0\n"

func writeReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0o600))
	return path
}

func TestRunAnalyze_CSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	var stdout bytes.Buffer

	err := runAnalyze(context.Background(), writeReport(t), analyzeOptions{outDir: out, format: "csv"}, &stdout, nil)
	require.NoError(t, err)

	for _, name := range domain.TableNames {
		assert.FileExists(t, filepath.Join(out, name+".csv"))
	}
	assert.FileExists(t, filepath.Join(out, patternsFile))
	assert.Contains(t, stdout.String(), "report.csv: 3 terms")
	assert.Contains(t, stdout.String(), "golden 1")

	patterns, err := os.ReadFile(filepath.Join(out, patternsFile))
	require.NoError(t, err)
	assert.Contains(t, string(patterns), "fits my")
}

func TestRunAnalyze_XLSX(t *testing.T) {
	out := t.TempDir()

	err := runAnalyze(context.Background(), writeReport(t), analyzeOptions{outDir: out, format: "xlsx"}, &bytes.Buffer{}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(out, "ppclens_report.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, domain.TableNames, f.GetSheetList())
}

func TestRunAnalyze_JSON(t *testing.T) {
	out := t.TempDir()

	err := runAnalyze(context.Background(), writeReport(t), analyzeOptions{outDir: out, format: "json"}, &bytes.Buffer{}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "result.json"))
	require.NoError(t, err)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 3, result.Summary.Terms)
	assert.NotEmpty(t, result.ID)
}

func TestRunAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		opts analyzeOptions
	}{
		{
			name: "unknown format",
			path: writeReport,
			opts: analyzeOptions{format: "pdf"},
		},
		{
			name: "missing report",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			opts: analyzeOptions{format: "csv"},
		},
		{
			name: "unsupported extension",
			path: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "report.pdf")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
				return path
			},
			opts: analyzeOptions{format: "csv"},
		},
		{
			name: "missing config file",
			path: writeReport,
			opts: analyzeOptions{format: "csv", configPath: "/does/not/exist.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.outDir = t.TempDir()
			err := runAnalyze(context.Background(), tt.path(t), tt.opts, &bytes.Buffer{}, nil)
			assert.Error(t, err)
		})
	}
}

func TestRootCmd_Analyze(t *testing.T) {
	out := t.TempDir()
	var stdout bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"analyze", writeReport(t), "--out", out, "--format", "csv"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "3 terms")
	assert.FileExists(t, filepath.Join(out, domain.TableSKAGPlan+".csv"))
}

func TestRootCmd_RequiresReport(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"analyze"})

	assert.Error(t, cmd.Execute())
}
