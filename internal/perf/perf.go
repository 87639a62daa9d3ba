// Package perf provides lightweight operation timing for storage calls.
// Durations are logged at debug level; operations over the threshold get a
// warning so a slow disk shows up without profiling.
package perf

import (
	"log/slog"
	"sync/atomic"
	"time"
)

type Timer struct {
	name     string
	logger   *slog.Logger
	start    time.Time
	threshMs int64
}

// NewTimer starts timing a named operation. threshMs is the slow-op
// warning threshold in milliseconds.
func NewTimer(name string, logger *slog.Logger, threshMs int64) *Timer {
	return &Timer{
		name:     name,
		logger:   logger,
		start:    time.Now(),
		threshMs: threshMs,
	}
}

func (t *Timer) Stop() {
	elapsed := time.Since(t.start)
	if t.logger == nil {
		return
	}
	t.logger.Debug(t.name, "duration_ms", elapsed.Milliseconds())
	if elapsed.Milliseconds() > t.threshMs {
		t.logger.Warn(t.name+"_slow", "duration_ms", elapsed.Milliseconds(), "threshold_ms", t.threshMs)
	}
}

// OpCounter counts operations, safe for concurrent use.
type OpCounter struct {
	name  string
	value int64
}

func NewOpCounter(name string) *OpCounter {
	return &OpCounter{name: name}
}

func (c *OpCounter) Inc() {
	atomic.AddInt64(&c.value, 1)
}

func (c *OpCounter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

func (c *OpCounter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}
