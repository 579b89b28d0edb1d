package drometa

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// promcollector package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordBuild is called after each dataset construction.
	// records is the input size, err is nil if successful.
	RecordBuild(records int, duration time.Duration, err error)

	// RecordFilter is called after each filter change.
	// active is the number of records passing all filters afterwards.
	RecordFilter(active int, duration time.Duration)

	// RecordGroupUpdate is called after groups were updated by a filter
	// change, with the number of Add and Remove reductions applied.
	RecordGroupUpdate(added, removed int)

	// RecordRestore is called after each snapshot restore.
	RecordRestore(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFilter(int, time.Duration)       {}
func (NoopMetricsCollector) RecordGroupUpdate(int, int)            {}
func (NoopMetricsCollector) RecordRestore(time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	RecordsIndexed   atomic.Int64
	FilterCount      atomic.Int64
	FilterTotalNanos atomic.Int64
	LastActive       atomic.Int64
	GroupAdds        atomic.Int64
	GroupRemoves     atomic.Int64
	RestoreCount     atomic.Int64
	RestoreErrors    atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(records int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.RecordsIndexed.Add(int64(records))
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(active int, duration time.Duration) {
	b.FilterCount.Add(1)
	b.FilterTotalNanos.Add(duration.Nanoseconds())
	b.LastActive.Store(int64(active))
}

// RecordGroupUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGroupUpdate(added, removed int) {
	b.GroupAdds.Add(int64(added))
	b.GroupRemoves.Add(int64(removed))
}

// RecordRestore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestore(duration time.Duration, err error) {
	b.RestoreCount.Add(1)
	if err != nil {
		b.RestoreErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildAvgNanos:  avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		RecordsIndexed: b.RecordsIndexed.Load(),
		FilterCount:    b.FilterCount.Load(),
		FilterAvgNanos: avg(b.FilterTotalNanos.Load(), b.FilterCount.Load()),
		LastActive:     b.LastActive.Load(),
		GroupAdds:      b.GroupAdds.Load(),
		GroupRemoves:   b.GroupRemoves.Load(),
		RestoreCount:   b.RestoreCount.Load(),
		RestoreErrors:  b.RestoreErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildAvgNanos  int64
	RecordsIndexed int64
	FilterCount    int64
	FilterAvgNanos int64
	LastActive     int64
	GroupAdds      int64
	GroupRemoves   int64
	RestoreCount   int64
	RestoreErrors  int64
}
