package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"time"

	"github.com/google/uuid"
	"github.com/ppclens/backend/internal/domain"
	"go.uber.org/zap"
)

// reportNamespace scopes report IDs (UUIDv5) to this service
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://ppclens.dev/reports"))

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	Settings  domain.Settings
	ResultTTL time.Duration
}

// AnalysisService runs the classification pipeline over one report and keeps
// the result in the result store for later download
type AnalysisService struct {
	cache       domain.CacheRepository
	recorder    domain.AnalysisRecorder
	logger      *zap.Logger
	resultTTL   time.Duration
	fingerprint []byte

	normalizer *ColumnNormalizer
	classifier *RuleClassifier
	scanner    *NegativeScanner
	miner      *LexiconMiner
	planner    *ActionPlanBuilder
}

// NewAnalysisService creates a new analysis service with dependencies.
// cache and recorder may be nil.
func NewAnalysisService(
	cache domain.CacheRepository,
	recorder domain.AnalysisRecorder,
	logger *zap.Logger,
	config AnalysisServiceConfig,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}

	resultTTL := config.ResultTTL
	if resultTTL == 0 {
		resultTTL = 24 * time.Hour
	}

	st := config.Settings
	// Settings hold only plain values and maps, which marshal with sorted keys
	fingerprint, err := json.Marshal(st)
	if err != nil {
		logger.Error("failed to fingerprint settings, report IDs ignore them", zap.Error(err))
	}

	return &AnalysisService{
		cache:       cache,
		recorder:    recorder,
		logger:      logger,
		resultTTL:   resultTTL,
		fingerprint: fingerprint,
		normalizer:  NewColumnNormalizer(st.Columns),
		classifier:  NewRuleClassifier(st.Rules, st.Decision),
		scanner:     NewNegativeScanner(st.NegativesScan),
		miner:       NewLexiconMiner(st.Lexicon, st.NegativesScan.Patterns),
		planner:     NewActionPlanBuilder(st.Plan, st.Decision.MinClicks, st.NegativesScan.PhraseRoots),
	}
}

// Run executes normalize → metrics → classify → scan → mine → plan.
// It is pure: the same report and settings always yield the same result.
func (s *AnalysisService) Run(report *domain.RawReport) *domain.AnalysisResult {
	table := s.normalizer.Normalize(report)
	ComputeMetrics(table)

	result := &domain.AnalysisResult{
		ID:    s.ReportID(report),
		Terms: table.Records,
	}
	if report != nil {
		result.Source = report.Source
	}

	result.Coarse = s.classifier.Coarse(table.Records)
	result.Decisions = s.classifier.DecisionTiers(table.Records)
	result.EarlyNegatives, result.NegativeUploads = s.scanner.Scan(table.Records)
	result.Lexicon = s.miner.Mine(table.Records)
	result.Plan = s.planner.Build(result.Decisions)
	result.Summary = summarize(result)
	return result
}

// Analyze runs the pipeline for an uploaded report and stores the result.
// Flow: check cache -> run pipeline -> cache -> return
func (s *AnalysisService) Analyze(ctx context.Context, report *domain.RawReport) (*domain.AnalysisResult, error) {
	if report == nil {
		return nil, domain.ErrInvalidRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := s.ReportID(report)
	if cached, err := s.GetResult(ctx, id); err == nil {
		s.logger.Debug("report served from result store", zap.String("id", id))
		// The file name is not part of the ID
		cached.Source = report.Source
		return cached, nil
	}

	start := time.Now()
	result := s.Run(report)
	elapsed := time.Since(start)

	s.logger.Info("report analyzed",
		zap.String("id", result.ID),
		zap.String("source", result.Source),
		zap.Int("terms", result.Summary.Terms),
		zap.Int("golden", result.Summary.Golden),
		zap.Int("early_negatives", result.Summary.EarlyNegatives),
		zap.Int("lexicon_suggestions", result.Summary.LexiconSuggestions),
		zap.Duration("elapsed", elapsed),
	)
	if s.recorder != nil {
		s.recorder.ObserveAnalysis(result.Summary, elapsed)
	}

	if err := s.storeResult(ctx, result); err != nil {
		// The caller still gets the tables; only later downloads are affected
		s.logger.Warn("failed to store result", zap.String("id", result.ID), zap.Error(err))
		if s.recorder != nil {
			s.recorder.ObserveStoreError("set")
		}
	}
	return result, nil
}

// GetResult loads a stored result by report ID
func (s *AnalysisService) GetResult(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.cache == nil {
		return nil, domain.ErrReportNotFound
	}

	payload, err := s.cache.Get(ctx, resultKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrReportNotFound
		}
		if s.recorder != nil {
			s.recorder.ObserveStoreError("get")
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode stored result %s: %w", id, err)
	}
	return &result, nil
}

// ReportID derives a deterministic UUIDv5 from the report cells and the
// settings snapshot
func (s *AnalysisService) ReportID(report *domain.RawReport) string {
	h := sha256.New()
	if report != nil {
		writeCells(h, report.Header)
		for _, row := range report.Rows {
			writeCells(h, row)
		}
	}
	h.Write(s.fingerprint)
	return uuid.NewSHA1(reportNamespace, h.Sum(nil)).String()
}

func (s *AnalysisService) storeResult(ctx context.Context, result *domain.AnalysisResult) error {
	if s.cache == nil {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return s.cache.Set(ctx, resultKey(result.ID), payload, s.resultTTL)
}

// writeCells length-prefixes every cell so row boundaries stay unambiguous
func writeCells(h hash.Hash, cells []string) {
	var buf [binary.MaxVarintLen64]byte
	h.Write(buf[:binary.PutUvarint(buf[:], uint64(len(cells)))])
	for _, c := range cells {
		h.Write(buf[:binary.PutUvarint(buf[:], uint64(len(c)))])
		h.Write([]byte(c))
	}
}

func resultKey(id string) string {
	return "report:" + id
}

func summarize(r *domain.AnalysisResult) domain.Summary {
	sum := domain.Summary{
		Terms:              len(r.Terms),
		ScaleUp:            len(r.Coarse.ScaleUp),
		BidDown:            len(r.Coarse.BidDown),
		Negatives:          len(r.Coarse.Negatives),
		Harvest:            len(r.Coarse.Harvest),
		Golden:             len(r.Decisions.Pass),
		KeepTesting:        len(r.Decisions.Test),
		Fail:               len(r.Decisions.Fail),
		EarlyNegatives:     len(r.EarlyNegatives),
		LexiconSuggestions: len(r.Lexicon),
		SKAGRows:           len(r.Plan.SKAG),
		NegExact:           len(r.Plan.NegExact),
	}
	sum.InsufficientData = sum.Terms - sum.Golden - sum.KeepTesting - sum.Fail
	return sum
}
