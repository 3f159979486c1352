package metrics

import (
	"net/http"
	"time"

	"github.com/ppclens/backend/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ppclens"

// Recorder exposes per-report analysis counters to Prometheus.
// It implements domain.AnalysisRecorder.
type Recorder struct {
	registry *prometheus.Registry

	reports     prometheus.Counter
	terms       prometheus.Counter
	buckets     *prometheus.CounterVec
	duration    prometheus.Histogram
	storeErrors *prometheus.CounterVec
}

// NewRecorder creates a recorder backed by its own registry, so tests and
// multiple servers in one process never collide on registration.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_analyzed_total",
			Help:      "Total reports run through the analysis pipeline",
		}),
		terms: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terms_analyzed_total",
			Help:      "Total search term rows analyzed",
		}),
		buckets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terms_classified_total",
			Help:      "Search terms per output bucket",
		}, []string{"bucket"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Pipeline run time per report",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_store_errors_total",
			Help:      "Result store failures by operation",
		}, []string{"op"}),
	}

	r.registry.MustRegister(
		r.reports, r.terms, r.buckets, r.duration, r.storeErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveAnalysis records one pipeline run
func (r *Recorder) ObserveAnalysis(summary domain.Summary, elapsed time.Duration) {
	r.reports.Inc()
	r.terms.Add(float64(summary.Terms))
	r.duration.Observe(elapsed.Seconds())

	for bucket, n := range map[string]int{
		"scale_up":          summary.ScaleUp,
		"bid_down":          summary.BidDown,
		"negative":          summary.Negatives,
		"harvest":           summary.Harvest,
		"golden":            summary.Golden,
		"keep_testing":      summary.KeepTesting,
		"fail":              summary.Fail,
		"insufficient_data": summary.InsufficientData,
		"early_negative":    summary.EarlyNegatives,
		"lexicon":           summary.LexiconSuggestions,
	} {
		r.buckets.WithLabelValues(bucket).Add(float64(n))
	}
}

// ObserveStoreError counts a failed result store operation
func (r *Recorder) ObserveStoreError(op string) {
	r.storeErrors.WithLabelValues(op).Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
