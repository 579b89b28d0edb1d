package drometa

import "github.com/hupe1980/drometa/histogram"

// Structures selects which derived structures a Dataset builds.
type Structures uint8

const (
	// Singular builds one dimension per attribute plus one per encoded
	// categorical hyperparameter.
	Singular Structures = 1 << iota
	// Histograms builds binned dimensions with count groups.
	Histograms
	// Pairwise builds attribute × objective dimensions with groups.
	Pairwise
	// SeriesMapping builds the per-hyperparameter series.
	SeriesMapping
	// ValueBins builds the value-grid bins used for scatterplot binning.
	ValueBins

	// AllStructures builds everything.
	AllStructures = Singular | Histograms | Pairwise | SeriesMapping | ValueBins
)

// Has reports whether every structure in x is selected.
func (s Structures) Has(x Structures) bool { return s&x == x }

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	structures       Structures
	groupPadding     float64
	valueBinCount    int
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		structures:       AllStructures,
		valueBinCount:    histogram.DefaultValueBinCount,
	}
}

// Option configures Dataset construction.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithStructures selects the structures to build. The default is
// AllStructures.
func WithStructures(s Structures) Option {
	return func(o *options) {
		o.structures = s
	}
}

// WithGroupPaddingRatio pads histogram group extrema by interval/ratio on
// both sides. A ratio <= 0, the default, disables padding.
func WithGroupPaddingRatio(ratio float64) Option {
	return func(o *options) {
		o.groupPadding = ratio
	}
}

// WithValueBinCount sets the grid size of objective value bins. Values
// below 1 keep the default of 10.
func WithValueBinCount(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.valueBinCount = n
		}
	}
}
