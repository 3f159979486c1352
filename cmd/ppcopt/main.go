package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppclens/backend/config"
	"github.com/ppclens/backend/internal/domain"
	"github.com/ppclens/backend/internal/infrastructure/report"
	"github.com/ppclens/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const patternsFile = "lexicon_patterns.yaml"

type analyzeOptions struct {
	configPath string
	outDir     string
	format     string
	category   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		logger  *zap.Logger
	)

	root := &cobra.Command{
		Use:   "ppcopt",
		Short: "Sponsored Products search term report optimizer",
		Long: `ppcopt classifies the rows of an Amazon Sponsored Products search term
report into scale-up, bid-down, negative and harvest buckets, runs the
golden / keep-testing / fail decision tier, scans for early negatives,
mines recurring n-grams from wasted spend and builds a SKAG action plan.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	var opts analyzeOptions
	analyzeCmd := &cobra.Command{
		Use:   "analyze <report>",
		Short: "Analyze a search term report (.csv, .txt or .xlsx)",
		Long: `Runs the full pipeline over one report and writes every result table to
the output directory, plus a lexicon_patterns.yaml snippet with the n-grams
recommended for the negative pattern lists.

Example:
  ppcopt analyze "Sponsored Products Search term report.xlsx" --out ./out --format xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0], opts, cmd.OutOrStdout(), logger)
		},
	}
	analyzeCmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./config.yaml, ./config/config.yaml)")
	analyzeCmd.Flags().StringVarP(&opts.outDir, "out", "o", "out", "output directory")
	analyzeCmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "output format: csv, xlsx or json")
	analyzeCmd.Flags().StringVar(&opts.category, "category", report.DefaultPatternCategory, "pattern category for suggested tokens")

	root.AddCommand(analyzeCmd)
	return root
}

func runAnalyze(ctx context.Context, path string, opts analyzeOptions, stdout io.Writer, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.format {
	case "csv", "xlsx", "json":
	default:
		return fmt.Errorf("%w: unknown format %q (want csv, xlsx or json)", domain.ErrInvalidRequest, opts.format)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings {
		logger.Warn("configuration section ignored", zap.String("detail", w))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	raw, err := report.Read(path, f)
	if err != nil {
		return err
	}

	service := usecase.NewAnalysisService(nil, nil, logger, usecase.AnalysisServiceConfig{Settings: cfg.Analysis})
	result, err := service.Analyze(ctx, raw)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := writeResult(opts, result); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(opts.outDir, patternsFile), func(w io.Writer) error {
		return report.WritePatternsYAML(w, opts.category, result.AddToPatternTokens())
	}); err != nil {
		return err
	}

	s := result.Summary
	fmt.Fprintf(stdout,
		"%s: %d terms | scale-up %d, bid-down %d, negatives %d, harvest %d | golden %d, keep-testing %d, fail %d | early negatives %d | lexicon %d | written to %s\n",
		result.Source, s.Terms, s.ScaleUp, s.BidDown, s.Negatives, s.Harvest,
		s.Golden, s.KeepTesting, s.Fail, s.EarlyNegatives, s.LexiconSuggestions, opts.outDir)
	return nil
}

func writeResult(opts analyzeOptions, result *domain.AnalysisResult) error {
	switch opts.format {
	case "xlsx":
		return writeFile(filepath.Join(opts.outDir, "ppclens_report.xlsx"), func(w io.Writer) error {
			return report.WriteWorkbook(w, result.Tables())
		})
	case "json":
		return writeFile(filepath.Join(opts.outDir, "result.json"), func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		})
	default:
		for _, table := range result.Tables() {
			if err := writeFile(filepath.Join(opts.outDir, table.Name+".csv"), func(w io.Writer) error {
				return report.WriteCSV(w, table)
			}); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
