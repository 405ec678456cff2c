package translate

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage indicates a destination language code outside the
// recognized set. Callers validate language codes before starting a job.
var ErrUnsupportedLanguage = errors.New("unsupported language code")

// ServiceError is a failure of a single translation call. The pipeline
// retries these silently and falls back to the original text when the
// retry budget is exhausted; a ServiceError never escapes the pipeline.
type ServiceError struct {
	Provider Provider
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s translation failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// JobError is a job-level failure that aborts the whole translation run,
// such as cancellation or a systemic fault retries will not fix. Unlike
// per-text failures it propagates to the caller and no partial result is
// returned.
type JobError struct {
	Batch int
	Err   error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("translation job failed at batch %d: %v", e.Batch, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }
