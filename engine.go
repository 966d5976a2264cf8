package ggfx

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/gogpu/ggfx/internal/parallel"
	"github.com/gogpu/ggfx/internal/pixpool"
)

// DefaultParallelThreshold is the pixel count below which a pass runs on the
// calling goroutine instead of being split across workers.
const DefaultParallelThreshold = 64 * 64

// minBandRows is the smallest band of rows handed to a worker.
const minBandRows = 16

// Engine runs filter passes. Within a pass, rows are split across a worker
// pool; passes themselves always run one after another.
//
// An Engine is safe for concurrent use. The package-level functions use a
// shared default Engine sized to GOMAXPROCS.
type Engine struct {
	pool      *parallel.WorkerPool // nil when running single-threaded
	scratch   *pixpool.Pool
	threshold int
	logger    *slog.Logger
}

// EngineOption configures an Engine during creation.
//
// Example:
//
//	e := ggfx.NewEngine(ggfx.WithWorkers(4))
//	defer e.Close()
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	workers   int
	threshold int
	logger    *slog.Logger
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		workers:   runtime.GOMAXPROCS(0),
		threshold: DefaultParallelThreshold,
	}
}

// WithWorkers sets the number of worker goroutines. Values below 2 run every
// pass on the calling goroutine.
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// WithParallelThreshold sets the minimum pixel count for a pass to be split
// across workers. Negative values are treated as 0 (always split).
func WithParallelThreshold(pixels int) EngineOption {
	return func(o *engineOptions) {
		o.threshold = max(pixels, 0)
	}
}

// WithLogger sets a logger for this engine. By default the engine logs
// through the package logger (see SetLogger).
func WithLogger(l *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// NewEngine creates an engine. Call Close to release its workers.
func NewEngine(opts ...EngineOption) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		scratch:   pixpool.New(4),
		threshold: o.threshold,
		logger:    o.logger,
	}
	if o.workers > 1 {
		e.pool = parallel.NewWorkerPool(o.workers)
	}
	return e
}

// Close stops the engine's workers. Passes started after Close still
// complete, on the calling goroutine.
func (e *Engine) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// Workers returns the number of worker goroutines (1 when single-threaded).
func (e *Engine) Workers() int {
	if e.pool == nil {
		return 1
	}
	return e.pool.Workers()
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return Logger()
}

// forRows runs fn over all rows of a width×height pass.
func (e *Engine) forRows(width, height int, fn func(y0, y1 int)) {
	if e.pool == nil || width*height < e.threshold {
		fn(0, height)
		return
	}
	e.pool.ForRows(height, minBandRows, func(b parallel.Band) {
		fn(b.Y0, b.Y1)
	})
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return NewEngine()
})
