package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"srt-translator/internal/subtitle"
)

// stubTranslator is a scriptable Translator for pipeline tests.
type stubTranslator struct {
	mapping    map[string]string // text -> translation; missing keys are uppercased
	failFirst  int               // fail this many calls before succeeding
	failAlways bool
	calls      int
}

func (s *stubTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	s.calls++
	if s.failAlways || s.calls <= s.failFirst {
		return "", &ServiceError{Provider: ProviderGoogle, Err: fmt.Errorf("stub failure %d", s.calls)}
	}
	if translated, ok := s.mapping[text]; ok {
		return translated, nil
	}
	return strings.ToUpper(text), nil
}

// newTestPipeline builds a pipeline with no-op sleeps, recording every
// requested sleep duration.
func newTestPipeline(tr Translator, opts Options) (*Pipeline, *[]time.Duration) {
	p := NewPipeline(tr, opts)
	var slept []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return p, &slept
}

func makeRecords(texts ...string) subtitle.List {
	records := make(subtitle.List, len(texts))
	for i, text := range texts {
		records[i] = subtitle.Record{
			Index: fmt.Sprintf("%d", i+1),
			Start: fmt.Sprintf("00:00:%02d,000", i*2),
			End:   fmt.Sprintf("00:00:%02d,500", i*2+1),
			Text:  text,
		}
	}
	return records
}

func TestPipeline_TranslatesRecords(t *testing.T) {
	stub := &stubTranslator{mapping: map[string]string{"Hola": "Hello", "Mundo": "World"}}
	p, _ := newTestPipeline(stub, Options{PauseMax: -1})

	records := subtitle.List{
		{Index: "1", Start: "00:00:01,000", End: "00:00:02,500", Text: "Hola"},
		{Index: "2", Start: "00:00:03,000", End: "00:00:04,000", Text: "Mundo"},
	}

	out, err := p.Run(context.Background(), records, "en", "auto")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := subtitle.List{
		{Index: "1", Start: "00:00:01,000", End: "00:00:02,500", Text: "Hello"},
		{Index: "2", Start: "00:00:03,000", End: "00:00:04,000", Text: "World"},
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, out[i], want[i])
		}
	}
}

func TestPipeline_OrderAndCardinalityPreserved(t *testing.T) {
	stub := &stubTranslator{}
	p, _ := newTestPipeline(stub, Options{BatchSize: 2, PauseMax: -1})

	records := makeRecords("one", "two", "three", "four", "five")
	out, err := p.Run(context.Background(), records, "en", "auto")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(out) != len(records) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(records))
	}
	for i := range records {
		if out[i].Index != records[i].Index || out[i].Start != records[i].Start || out[i].End != records[i].End {
			t.Errorf("record %d timing/index changed: %+v vs %+v", i, out[i], records[i])
		}
		if out[i].Text != strings.ToUpper(records[i].Text) {
			t.Errorf("record %d text = %q, want %q", i, out[i].Text, strings.ToUpper(records[i].Text))
		}
	}
}

func TestPipeline_IdentityFallback(t *testing.T) {
	stub := &stubTranslator{failAlways: true}
	p, _ := newTestPipeline(stub, Options{BatchSize: 2, MaxRetries: 3, PauseMax: -1})

	records := makeRecords("uno", "dos", "tres")
	out, err := p.Run(context.Background(), records, "en", "auto")
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (per-text exhaustion must not fail the job)", err)
	}

	for i := range records {
		if out[i].Text != records[i].Text {
			t.Errorf("record %d text = %q, want original %q", i, out[i].Text, records[i].Text)
		}
	}
	if stub.calls != len(records)*3 {
		t.Errorf("translator calls = %d, want %d (3 attempts per text)", stub.calls, len(records)*3)
	}
}

func TestPipeline_LinearBackoff(t *testing.T) {
	stub := &stubTranslator{failFirst: 2}
	p, slept := newTestPipeline(stub, Options{MaxRetries: 3, RetryDelay: time.Second, PauseMax: -1})

	records := makeRecords("hola")
	out, err := p.Run(context.Background(), records, "en", "auto")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out[0].Text != "HOLA" {
		t.Errorf("text = %q, want 'HOLA' after retries succeed", out[0].Text)
	}

	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*slept) != len(want) {
		t.Fatalf("sleeps = %v, want %v", *slept, want)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v (linear backoff)", i, (*slept)[i], want[i])
		}
	}
}

func TestPipeline_NoBackoffAfterFinalAttempt(t *testing.T) {
	stub := &stubTranslator{failAlways: true}
	p, slept := newTestPipeline(stub, Options{MaxRetries: 2, RetryDelay: time.Second, PauseMax: -1})

	if _, err := p.Run(context.Background(), makeRecords("x"), "en", "auto"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Two attempts, one backoff in between, none after the last.
	if len(*slept) != 1 {
		t.Errorf("sleeps = %v, want exactly one backoff", *slept)
	}
}

func TestPipeline_PausesBetweenBatches(t *testing.T) {
	stub := &stubTranslator{}
	p, slept := newTestPipeline(stub, Options{
		BatchSize: 2,
		PauseMin:  10 * time.Millisecond,
		PauseMax:  10 * time.Millisecond,
	})

	if _, err := p.Run(context.Background(), makeRecords("a", "b", "c", "d", "e"), "en", "auto"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// 3 batches -> a pause after each except the last.
	if len(*slept) != 2 {
		t.Fatalf("pauses = %v, want 2", *slept)
	}
	for _, d := range *slept {
		if d != 10*time.Millisecond {
			t.Errorf("pause = %v, want 10ms with equal bounds", d)
		}
	}
}

func TestPipeline_PacingDisabled(t *testing.T) {
	stub := &stubTranslator{}
	p, slept := newTestPipeline(stub, Options{BatchSize: 1, PauseMax: -1})

	if _, err := p.Run(context.Background(), makeRecords("a", "b", "c"), "en", "auto"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(*slept) != 0 {
		t.Errorf("sleeps = %v, want none when pacing disabled", *slept)
	}
}

func TestPipeline_CancellationAbortsJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stub := &cancelingTranslator{cancel: cancel, after: 2}
	p, _ := newTestPipeline(stub, Options{BatchSize: 2, PauseMax: -1})

	out, err := p.Run(ctx, makeRecords("a", "b", "c", "d"), "en", "auto")
	if out != nil {
		t.Errorf("out = %+v, want nil (no partial result on job failure)", out)
	}

	var jobErr *JobError
	if !errors.As(err, &jobErr) {
		t.Fatalf("error = %v, want *JobError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want wrapped context.Canceled", err)
	}
}

// cancelingTranslator cancels the job context after a number of calls,
// simulating a caller-level timeout firing mid-run.
type cancelingTranslator struct {
	cancel context.CancelFunc
	after  int
	calls  int
}

func (c *cancelingTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	c.calls++
	if c.calls >= c.after {
		c.cancel()
		return "", &ServiceError{Provider: ProviderGoogle, Err: ctx.Err()}
	}
	return text, nil
}

func TestPipeline_EmptyInput(t *testing.T) {
	p, _ := newTestPipeline(&stubTranslator{}, Options{})
	out, err := p.Run(context.Background(), nil, "en", "auto")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 0 {
		t.Errorf("out = %+v, want empty", out)
	}
}

func TestNewPipeline_DefaultsApplied(t *testing.T) {
	p := NewPipeline(&stubTranslator{}, Options{})
	defaults := DefaultOptions()

	if p.opts.BatchSize != defaults.BatchSize {
		t.Errorf("BatchSize = %d, want default %d", p.opts.BatchSize, defaults.BatchSize)
	}
	if p.opts.MaxRetries != defaults.MaxRetries {
		t.Errorf("MaxRetries = %d, want default %d", p.opts.MaxRetries, defaults.MaxRetries)
	}
	if p.opts.RetryDelay != defaults.RetryDelay {
		t.Errorf("RetryDelay = %v, want default %v", p.opts.RetryDelay, defaults.RetryDelay)
	}
}
