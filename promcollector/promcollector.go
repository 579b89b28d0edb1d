// Package promcollector exports dataset metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	ds, err := drometa.New(name, records, schema, 10,
//	    drometa.WithMetricsCollector(promcollector.New(reg)),
//	)
package promcollector

import (
	"time"

	"github.com/hupe1980/drometa"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "drometa"

// Collector implements drometa.MetricsCollector with Prometheus metrics.
type Collector struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	records       prometheus.Counter

	filters        prometheus.Counter
	filterDuration prometheus.Histogram
	activeRecords  prometheus.Gauge

	groupUpdates *prometheus.CounterVec

	restores        *prometheus.CounterVec
	restoreDuration prometheus.Histogram
}

var _ drometa.MetricsCollector = (*Collector)(nil)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// New registers the metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		builds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Dataset constructions by status",
		}, []string{"status"}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Dataset construction latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		records: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_indexed_total",
			Help:      "Records indexed by successful constructions",
		}),
		filters: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_total",
			Help:      "Filter changes applied",
		}),
		filterDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Latency of a filter change including group updates",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		activeRecords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_records",
			Help:      "Records passing all filters after the last change",
		}),
		groupUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_updates_total",
			Help:      "Group reductions applied by filter changes",
		}, []string{"op"}),
		restores: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restores_total",
			Help:      "Snapshot restores by status",
		}, []string{"status"}),
		restoreDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "restore_duration_seconds",
			Help:      "Snapshot restore latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

// RecordBuild implements drometa.MetricsCollector.
func (c *Collector) RecordBuild(records int, d time.Duration, err error) {
	c.builds.WithLabelValues(status(err)).Inc()
	c.buildDuration.Observe(d.Seconds())
	if err == nil {
		c.records.Add(float64(records))
	}
}

// RecordFilter implements drometa.MetricsCollector.
func (c *Collector) RecordFilter(active int, d time.Duration) {
	c.filters.Inc()
	c.filterDuration.Observe(d.Seconds())
	c.activeRecords.Set(float64(active))
}

// RecordGroupUpdate implements drometa.MetricsCollector.
func (c *Collector) RecordGroupUpdate(added, removed int) {
	c.groupUpdates.WithLabelValues("add").Add(float64(added))
	c.groupUpdates.WithLabelValues("remove").Add(float64(removed))
}

// RecordRestore implements drometa.MetricsCollector.
func (c *Collector) RecordRestore(d time.Duration, err error) {
	c.restores.WithLabelValues(status(err)).Inc()
	c.restoreDuration.Observe(d.Seconds())
}
