package manager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
	"github.com/mateusz-kow/Auto-Subs/internal/transcribe"
)

type fakeEngine struct {
	mu       sync.Mutex
	result   *subtitle.Transcript
	err      error
	started  chan struct{} // closed when Transcribe is entered, optional
	release  chan struct{} // Transcribe blocks until closed, optional
	requests int
}

func (e *fakeEngine) Transcribe(ctx context.Context, audioPath string) (*subtitle.Transcript, error) {
	e.mu.Lock()
	e.requests++
	started := e.started
	release := e.release
	e.mu.Unlock()

	if started != nil {
		close(started)
		e.mu.Lock()
		e.started = nil
		e.mu.Unlock()
	}
	if release != nil {
		<-release
	}
	return e.result, e.err
}

type transcriptionRecorder struct {
	mu        sync.Mutex
	changed   []*subtitle.Transcript
	failed    []error
	cancelled int
}

func (r *transcriptionRecorder) OnTranscriptionChanged(t *subtitle.Transcript) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, t)
}

func (r *transcriptionRecorder) OnTranscriptionFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

func (r *transcriptionRecorder) OnTranscriptionCancelled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled++
}

func (r *transcriptionRecorder) snapshot() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changed), len(r.failed), r.cancelled
}

func immediateLoader(engine transcribe.Engine, err error) EngineLoader {
	return func(context.Context) (transcribe.Engine, error) {
		return engine, err
	}
}

func sampleTranscript() *subtitle.Transcript {
	return &subtitle.Transcript{Segments: []subtitle.TranscriptSegment{{
		Words: []subtitle.TranscriptWord{{Word: "hi", Start: 0, End: 0.5}},
	}}}
}

func TestTranscribeNotifiesOnSuccess(t *testing.T) {
	engine := &fakeEngine{result: sampleTranscript()}
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(engine, nil))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)
	m.OnVideoChanged("/videos/a.mp4")

	result, err := m.Transcribe(context.Background(), "/videos/a.mp4")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected a transcript")
	}

	changed, failed, cancelled := rec.snapshot()
	if changed != 1 || failed != 0 || cancelled != 0 {
		t.Errorf("unexpected notifications: changed=%d failed=%d cancelled=%d",
			changed, failed, cancelled)
	}
}

func TestTranscribeEngineLoadFailure(t *testing.T) {
	loadErr := errors.New("bad api key")
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(nil, loadErr))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)
	m.OnVideoChanged("/videos/a.mp4")

	if _, err := m.Transcribe(context.Background(), "/videos/a.mp4"); !errors.Is(err, loadErr) {
		t.Errorf("expected engine load error, got %v", err)
	}
	if _, failed, _ := rec.snapshot(); failed != 1 {
		t.Errorf("expected 1 failed notification, got %d", failed)
	}
}

func TestTranscribeInferenceFailure(t *testing.T) {
	inferErr := errors.New("api unavailable")
	engine := &fakeEngine{err: inferErr}
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(engine, nil))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)
	m.OnVideoChanged("/videos/a.mp4")

	if _, err := m.Transcribe(context.Background(), "/videos/a.mp4"); !errors.Is(err, inferErr) {
		t.Errorf("expected inference error, got %v", err)
	}
	changed, failed, _ := rec.snapshot()
	if changed != 0 || failed != 1 {
		t.Errorf("unexpected notifications: changed=%d failed=%d", changed, failed)
	}
}

func TestTranscribeStaleBeforeInference(t *testing.T) {
	engine := &fakeEngine{result: sampleTranscript()}
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(engine, nil))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)
	m.OnVideoChanged("/videos/b.mp4")

	result, err := m.Transcribe(context.Background(), "/videos/a.mp4")
	if err != nil || result != nil {
		t.Errorf("stale run should be suppressed, got (%v, %v)", result, err)
	}
	if engine.requests != 0 {
		t.Error("stale request must not reach the engine")
	}
	if changed, _, _ := rec.snapshot(); changed != 0 {
		t.Error("stale run must not notify")
	}
}

func TestTranscribeStaleAfterInference(t *testing.T) {
	engine := &fakeEngine{
		result:  sampleTranscript(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(engine, nil))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)
	m.OnVideoChanged("/videos/a.mp4")

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := m.Transcribe(context.Background(), "/videos/a.mp4")
		if result != nil || err != nil {
			t.Errorf("stale result should be discarded, got (%v, %v)", result, err)
		}
	}()

	<-engine.started
	m.OnVideoChanged("/videos/b.mp4") // target changes mid-inference
	close(engine.release)
	<-done

	if changed, _, _ := rec.snapshot(); changed != 0 {
		t.Error("result for a replaced video must not be applied")
	}
}

func TestTranscribeCancellation(t *testing.T) {
	engine := &fakeEngine{
		result:  sampleTranscript(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(engine, nil))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)
	m.OnVideoChanged("/videos/a.mp4")

	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := m.Transcribe(context.Background(), "/videos/a.mp4")
		if result != nil || err != nil {
			t.Errorf("cancelled result should be discarded, got (%v, %v)", result, err)
		}
	}()

	<-engine.started
	m.CancelTranscription()
	close(engine.release)
	<-done

	changed, failed, cancelled := rec.snapshot()
	if changed != 0 || failed != 0 || cancelled != 1 {
		t.Errorf("unexpected notifications: changed=%d failed=%d cancelled=%d",
			changed, failed, cancelled)
	}
}

func TestStartTranscriptionWithoutPath(t *testing.T) {
	engine := &fakeEngine{result: sampleTranscript()}
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(engine, nil))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)

	m.StartTranscription(context.Background())

	time.Sleep(100 * time.Millisecond)
	if engine.requests != 0 {
		t.Error("transcription must not start without a target path")
	}
}

func TestStartTranscriptionResetsCancellation(t *testing.T) {
	engine := &fakeEngine{result: sampleTranscript()}
	m := NewTranscriptionManager(logging.NewNop(), immediateLoader(engine, nil))
	rec := &transcriptionRecorder{}
	m.RegisterListener(rec)
	m.OnVideoChanged("/videos/a.mp4")

	m.CancelTranscription()
	m.StartTranscription(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		changed, _, cancelled := rec.snapshot()
		if changed == 1 && cancelled == 0 {
			break
		}
		if cancelled != 0 {
			t.Fatal("a new run must clear a stale cancellation request")
		}
		select {
		case <-deadline:
			t.Fatalf("transcription never completed: changed=%d", changed)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestTranscribeContextCancelledBeforeEngineReady(t *testing.T) {
	blocked := make(chan struct{})
	m := NewTranscriptionManager(logging.NewNop(), func(ctx context.Context) (transcribe.Engine, error) {
		<-blocked
		return &fakeEngine{}, nil
	})
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Transcribe(ctx, "/videos/a.mp4"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
