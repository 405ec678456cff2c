package translate

import (
	"context"
	"math/rand"
	"time"

	"srt-translator/internal/logger"
	"srt-translator/internal/subtitle"
)

// Options tunes the pipeline's batching, retry and pacing behavior.
type Options struct {
	// BatchSize is the number of records translated per batch. Smaller
	// batches reduce the work lost to a single timeout at the cost of
	// more round trips.
	BatchSize int

	// MaxRetries is the per-text attempt cap. Once exhausted the pipeline
	// keeps the original text instead of failing the job.
	MaxRetries int

	// RetryDelay is the base backoff unit; attempt n waits n*RetryDelay.
	RetryDelay time.Duration

	// PauseMin and PauseMax bound the randomized sleep between batches,
	// which keeps the free translation endpoint from throttling us.
	// PauseMax <= 0 disables pacing entirely.
	PauseMin time.Duration
	PauseMax time.Duration
}

// DefaultOptions returns the default pipeline tuning.
func DefaultOptions() Options {
	return Options{
		BatchSize:  5,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
		PauseMin:   300 * time.Millisecond,
		PauseMax:   1500 * time.Millisecond,
	}
}

// Pipeline translates decoded subtitle records batch by batch, strictly
// sequentially. Each job owns its own Pipeline; there is no shared state
// between jobs.
type Pipeline struct {
	translator Translator
	opts       Options
	rng        *rand.Rand

	// sleep is replaced in tests to make backoff and pacing deterministic.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline creates a pipeline around the given translator. Zero or
// negative option fields fall back to their defaults, except the pause
// bounds where zero means no pacing.
func NewPipeline(translator Translator, opts Options) *Pipeline {
	defaults := DefaultOptions()
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaults.MaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaults.RetryDelay
	}
	if opts.PauseMax < opts.PauseMin {
		opts.PauseMin, opts.PauseMax = opts.PauseMax, opts.PauseMin
	}
	return &Pipeline{
		translator: translator,
		opts:       opts,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      sleepContext,
	}
}

// Run translates all records to targetLang and returns a new list with the
// same length and order, identical index and timing fields, and only the
// text replaced. sourceLang may be empty or "auto" for detection.
//
// Per-text failures are retried with linear backoff and degrade to the
// original text; only cancellation or a systemic fault aborts the job, as
// a *JobError with no partial result.
func (p *Pipeline) Run(ctx context.Context, records subtitle.List, targetLang, sourceLang string) (subtitle.List, error) {
	if len(records) == 0 {
		return subtitle.List{}, nil
	}
	if sourceLang == "" {
		sourceLang = "auto"
	}

	total := len(records)
	out := make(subtitle.List, 0, total)
	batchCount := (total + p.opts.BatchSize - 1) / p.opts.BatchSize

	for start := 0; start < total; start += p.opts.BatchSize {
		end := start + p.opts.BatchSize
		if end > total {
			end = total
		}
		batch := start / p.opts.BatchSize

		for _, rec := range records[start:end] {
			text, err := p.translateWithRetry(ctx, rec.Text, targetLang, sourceLang)
			if err != nil {
				return nil, &JobError{Batch: batch, Err: err}
			}
			out = append(out, subtitle.Record{
				Index: rec.Index,
				Start: rec.Start,
				End:   rec.End,
				Text:  text,
			})
		}

		logger.Debug("translated batch %d/%d (%d/%d records)", batch+1, batchCount, end, total)

		if end < total {
			if err := p.pause(ctx); err != nil {
				return nil, &JobError{Batch: batch, Err: err}
			}
		}
	}

	return out, nil
}

// translateWithRetry attempts a single text up to MaxRetries times with
// linear backoff, then falls back to the original text. A partially
// translated file beats no file. The only error returned is a context
// error, which callers escalate to a job abort.
func (p *Pipeline) translateWithRetry(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= p.opts.MaxRetries; attempt++ {
		translated, err := p.translator.Translate(ctx, text, targetLang, sourceLang)
		if err == nil {
			return translated, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		logger.Warn("translation attempt %d/%d failed: %v", attempt, p.opts.MaxRetries, err)

		if attempt < p.opts.MaxRetries {
			if err := p.sleep(ctx, time.Duration(attempt)*p.opts.RetryDelay); err != nil {
				return "", err
			}
		}
	}

	logger.Debug("keeping original text after %d failed attempts: %v", p.opts.MaxRetries, lastErr)
	return text, nil
}

// pause sleeps a random interval between batches.
func (p *Pipeline) pause(ctx context.Context) error {
	if p.opts.PauseMax <= 0 {
		return nil
	}
	d := p.opts.PauseMin
	if span := p.opts.PauseMax - p.opts.PauseMin; span > 0 {
		d += time.Duration(p.rng.Int63n(int64(span) + 1))
	}
	return p.sleep(ctx, d)
}

// sleepContext sleeps for d or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
