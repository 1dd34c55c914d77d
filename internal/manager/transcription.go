package manager

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
	"github.com/mateusz-kow/Auto-Subs/internal/transcribe"
)

// TranscriptionChangedListener receives a completed transcript.
type TranscriptionChangedListener interface {
	OnTranscriptionChanged(*subtitle.Transcript)
}

// TranscriptionFailedListener receives transcription errors.
type TranscriptionFailedListener interface {
	OnTranscriptionFailed(error)
}

// TranscriptionCancelledListener fires when a cancelled run's result is
// discarded.
type TranscriptionCancelledListener interface {
	OnTranscriptionCancelled()
}

// EngineLoader builds the speech-to-text engine; it runs once on a
// background goroutine at manager construction.
type EngineLoader func(ctx context.Context) (transcribe.Engine, error)

// cancellation states, checked at defined checkpoints only
const (
	cancelNone int32 = iota
	cancelRequested
	cancelDone
)

// TranscriptionManager drives the speech-to-text engine. The engine loads
// lazily in the background; a single-slot lock serializes inference; results
// that are stale (the target path changed) or cancelled are discarded
// silently.
type TranscriptionManager struct {
	log *logging.Logger

	engineReady chan struct{}
	engine      transcribe.Engine
	engineErr   error

	// held across the inference call to serialize transcription requests
	inference sync.Mutex

	mu          sync.Mutex
	currentPath string
	cancelState atomic.Int32

	changedListeners   []func(*subtitle.Transcript)
	failedListeners    []func(error)
	cancelledListeners []func(struct{})
}

func NewTranscriptionManager(log *logging.Logger, loader EngineLoader) *TranscriptionManager {
	m := &TranscriptionManager{
		log:         log.Named("transcription"),
		engineReady: make(chan struct{}),
	}

	go func() {
		m.log.Infow("Loading transcription engine")
		engine, err := loader(context.Background())
		m.engine = engine
		m.engineErr = err
		close(m.engineReady)
		if err != nil {
			m.log.Errorw("Failed to load transcription engine", "error", err)
			return
		}
		m.log.Infow("Transcription engine loaded")
	}()

	return m
}

// RegisterListener subscribes the candidate to every transcription event
// whose listener interface it implements.
func (m *TranscriptionManager) RegisterListener(candidate any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := candidate.(TranscriptionChangedListener); ok {
		m.changedListeners = append(m.changedListeners, l.OnTranscriptionChanged)
	}
	if l, ok := candidate.(TranscriptionFailedListener); ok {
		m.failedListeners = append(m.failedListeners, l.OnTranscriptionFailed)
	}
	if l, ok := candidate.(TranscriptionCancelledListener); ok {
		cancelled := l
		m.cancelledListeners = append(m.cancelledListeners, func(struct{}) {
			cancelled.OnTranscriptionCancelled()
		})
	}
}

// OnVideoChanged retargets the manager at the new video so stale results
// from a previous video are never applied.
func (m *TranscriptionManager) OnVideoChanged(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPath = path
}

// StartTranscription kicks off transcription of the current target path.
// Fire-and-forget: failures surface through the notification channel.
func (m *TranscriptionManager) StartTranscription(ctx context.Context) {
	m.mu.Lock()
	path := m.currentPath
	m.mu.Unlock()

	if path == "" {
		m.log.Warnw("Transcription started with no video path set")
		return
	}

	m.cancelState.Store(cancelNone)
	m.log.Infow("Transcription initiated", "path", path)
	go func() {
		_, _ = m.Transcribe(ctx, path)
	}()
}

// CancelTranscription requests cooperative cancellation. The flag is
// consulted after the inference call returns; there is no hard-cancel.
func (m *TranscriptionManager) CancelTranscription() {
	m.cancelState.Store(cancelRequested)
	m.log.Infow("Transcription cancellation requested")
}

// Transcribe waits for engine readiness, runs inference while holding the
// single inference slot, and notifies listeners unless the run went stale or
// was cancelled meanwhile. Returns (nil, nil) for suppressed runs.
func (m *TranscriptionManager) Transcribe(ctx context.Context, audioPath string) (*subtitle.Transcript, error) {
	select {
	case <-m.engineReady:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if m.engineErr != nil {
		m.notifyFailed(m.engineErr)
		return nil, m.engineErr
	}

	m.inference.Lock()
	defer m.inference.Unlock()

	if m.targetPath() != audioPath {
		m.log.Debugw("Ignoring outdated transcription request", "path", audioPath)
		return nil, nil
	}

	m.log.Infow("Starting transcription", "path", audioPath)
	result, err := m.engine.Transcribe(ctx, audioPath)
	if err != nil {
		m.log.Errorw("Transcription failed", "path", audioPath, "error", err)
		m.notifyFailed(err)
		return nil, err
	}

	if m.cancelState.CompareAndSwap(cancelRequested, cancelDone) {
		m.log.Infow("Transcription cancelled; discarding result")
		m.notifyCancelled()
		return nil, nil
	}

	if m.targetPath() != audioPath {
		m.log.Debugw("Transcription result discarded: target changed", "path", audioPath)
		return nil, nil
	}

	m.log.Infow("Transcription completed", "path", audioPath)
	m.notifyChanged(result)
	return result, nil
}

func (m *TranscriptionManager) targetPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPath
}

func (m *TranscriptionManager) notifyChanged(t *subtitle.Transcript) {
	m.mu.Lock()
	listeners := slices.Clone(m.changedListeners)
	m.mu.Unlock()
	notify(m.log, "transcription_changed", listeners, t)
}

func (m *TranscriptionManager) notifyFailed(err error) {
	m.mu.Lock()
	listeners := slices.Clone(m.failedListeners)
	m.mu.Unlock()
	notify(m.log, "transcription_failed", listeners, err)
}

func (m *TranscriptionManager) notifyCancelled() {
	m.mu.Lock()
	listeners := slices.Clone(m.cancelledListeners)
	m.mu.Unlock()
	notify(m.log, "transcription_cancelled", listeners, struct{}{})
}
