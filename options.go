package unfurl

import (
	"log/slog"
	"runtime"

	"github.com/meigma/unfurl/core"
)

// Option configures an extraction.
type Option func(*config)

type config struct {
	bufferSize  int
	concurrency int
	password    string
	logger      *slog.Logger
	resultFn    func(EntryResult)
	progress    ProgressFunc
}

func newConfig(opts []Option) *config {
	cfg := &config{
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

// report delivers a per-entry result to the opt-in callback, if any.
func (c *config) report(e core.Entry, path string, status core.EntryStatus) {
	if c.resultFn != nil {
		c.resultFn(EntryResult{Name: e.Name, Path: path, Status: status})
	}
}

// WithBufferSize sets the per-file write buffer size in bytes. The
// effective buffer is capped by each entry's own size.
func WithBufferSize(n int) Option {
	return func(c *config) {
		c.bufferSize = n
	}
}

// WithConcurrency bounds the number of in-flight file writes for the
// concurrent driver. Defaults to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// WithLogger sets a logger for the extraction. By default, logging is
// disabled. Skipped entries and suppressed write failures are noted at
// debug level only.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithPassword decrypts protected zip entries in ExtractFile. Ignored by
// formats without encryption support.
func WithPassword(password string) Option {
	return func(c *config) {
		c.password = password
	}
}

// WithProgress sets a callback invoked once per entry while the container
// is decoded (not during extraction). Used by ExtractFile only.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithResultFunc opts in to per-entry outcome reporting. The aggregate
// call still tolerates and continues past individual failures; the
// callback is how callers learn which entries were skipped or failed.
// Under the concurrent driver the callback may be invoked from multiple
// goroutines and must be safe for that.
func WithResultFunc(fn func(EntryResult)) Option {
	return func(c *config) {
		c.resultFn = fn
	}
}
