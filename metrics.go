// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BuilderMetrics accumulates plain counters updated synchronously during
// Set/SetRange, the way the teacher's Metrics struct accumulates plain
// int64 counters for level/compaction bookkeeping. It carries no
// prometheus types itself; a caller who wants these exported as Prometheus
// metrics reads them out after the fact.
type BuilderMetrics struct {
	// BlocksAllocated counts every block getDataBlock allocates
	// (materializing an ALL_SAME slot into a fresh MIXED block), including the
	// materializations SetRange performs for partial blocks.
	BlocksAllocated int64
	// BlockStoreGrowths counts every time the backing block store has had
	// to reallocate and copy its array to satisfy an AllocBlock call.
	BlockStoreGrowths int64
}

// FreezeMetrics holds Prometheus instrumentation recorded once per Freeze
// call, mirroring the teacher's FsyncLatency prometheus.Histogram idiom in
// metrics.go. A nil *FreezeMetrics is a valid, zero-cost no-op at every
// record site; Freeze accepts one optionally.
type FreezeMetrics struct {
	// Duration records the wall-clock time spent in Freeze (compaction +
	// serialization).
	Duration prometheus.Histogram
	// BlocksDeduped counts MIXED/ALL_SAME slots that compactWholeDataBlocks
	// rewrote as SAME_AS because an earlier slot already held an
	// identical block.
	BlocksDeduped prometheus.Counter
	// WordsOverlapped counts the number of destination words that
	// compactData avoided writing because they overlapped the tail of a
	// previously placed block.
	WordsOverlapped prometheus.Counter
}

// NewFreezeMetrics constructs a FreezeMetrics with default bucket
// boundaries, mirroring metrics.go's use of
// prometheus.ExponentialBucketsRange for latency histograms sized for a
// build-time operation that usually completes in micro-to-milliseconds but
// can take longer on pathological inputs.
func NewFreezeMetrics() *FreezeMetrics {
	return &FreezeMetrics{
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "utrie3_freeze_duration_seconds",
			Help: "Time spent compacting and serializing a trie in Freeze.",
			Buckets: append(
				prometheus.LinearBuckets(0, (100*time.Microsecond).Seconds(), 10),
				prometheus.ExponentialBucketsRange(time.Millisecond.Seconds(), (10*time.Second).Seconds(), 20)...,
			),
		}),
		BlocksDeduped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "utrie3_freeze_blocks_deduped_total",
			Help: "Count of data blocks found identical to an earlier block during Freeze.",
		}),
		WordsOverlapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "utrie3_freeze_words_overlapped_total",
			Help: "Count of destination words elided by suffix/prefix overlap during Freeze.",
		}),
	}
}

func (m *FreezeMetrics) observeDuration(d time.Duration) {
	if m == nil || m.Duration == nil {
		return
	}
	m.Duration.Observe(d.Seconds())
}

func (m *FreezeMetrics) addDeduped(n int64) {
	if m == nil || m.BlocksDeduped == nil || n == 0 {
		return
	}
	m.BlocksDeduped.Add(float64(n))
}

func (m *FreezeMetrics) addOverlapped(n int64) {
	if m == nil || m.WordsOverlapped == nil || n == 0 {
		return
	}
	m.WordsOverlapped.Add(float64(n))
}
