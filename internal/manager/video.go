package manager

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
)

// VideoChangedListener receives the new video path.
type VideoChangedListener interface {
	OnVideoChanged(string)
}

// Prober reports the duration of a media file in seconds.
type Prober interface {
	Duration(path string) (float64, error)
}

// VideoManager owns the current video path and its probed duration.
type VideoManager struct {
	mu       sync.Mutex
	log      *logging.Logger
	prober   Prober
	path     string
	duration float64

	listeners []func(string)
}

func NewVideoManager(log *logging.Logger, prober Prober) *VideoManager {
	return &VideoManager{
		log:    log.Named("video"),
		prober: prober,
	}
}

// RegisterListener subscribes the candidate if it implements
// VideoChangedListener.
func (m *VideoManager) RegisterListener(candidate any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := candidate.(VideoChangedListener); ok {
		m.listeners = append(m.listeners, l.OnVideoChanged)
	}
}

// SetPath stores a new video path, re-probes its duration and notifies
// listeners.
func (m *VideoManager) SetPath(path string) error {
	if path == "" {
		return fmt.Errorf("video path must not be empty")
	}

	duration, err := m.prober.Duration(path)
	if err != nil {
		return fmt.Errorf("failed to probe video duration: %w", err)
	}

	m.mu.Lock()
	m.path = path
	m.duration = duration
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	m.log.Infow("Video path set", "path", path, "duration", duration)
	notify(m.log, "video_changed", listeners, path)
	return nil
}

// Path returns the current video path, empty when no video is loaded.
func (m *VideoManager) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// Duration returns the probed duration of the current video in seconds.
func (m *VideoManager) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}
