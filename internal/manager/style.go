package manager

import (
	"slices"
	"sync"
	"time"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/style"
	"github.com/mateusz-kow/Auto-Subs/internal/throttle"
)

// StyleChangedListener receives the full style after any change.
type StyleChangedListener interface {
	OnStyleChanged(style.Style)
}

// StyleLoadedListener additionally fires when a style was loaded from a file,
// reset to defaults, or arrived with a project.
type StyleLoadedListener interface {
	OnStyleLoaded(style.Style)
}

// StyleManager owns the current style document. Change notifications are
// throttled because style edits arrive at UI-input speed while downstream
// reactions (re-rendering the subtitle preview) are expensive.
type StyleManager struct {
	mu      sync.Mutex
	log     *logging.Logger
	current style.Style

	changedThrottle *throttle.Throttler
	loadedThrottle  *throttle.Throttler

	changedListeners []func(style.Style)
	loadedListeners  []func(style.Style)
}

func NewStyleManager(log *logging.Logger, notifyInterval time.Duration) *StyleManager {
	return &StyleManager{
		log:             log.Named("style"),
		current:         style.Default(),
		changedThrottle: throttle.NewThrottler(notifyInterval),
		loadedThrottle:  throttle.NewThrottler(notifyInterval),
	}
}

// RegisterListener subscribes the candidate to every style event whose
// listener interface it implements.
func (m *StyleManager) RegisterListener(candidate any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := candidate.(StyleChangedListener); ok {
		m.changedListeners = append(m.changedListeners, l.OnStyleChanged)
	}
	if l, ok := candidate.(StyleLoadedListener); ok {
		m.loadedListeners = append(m.loadedListeners, l.OnStyleLoaded)
	}
}

// Style returns the current style document. Callers must not mutate it
// outside this manager's methods.
func (m *StyleManager) Style() style.Style {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Update merges the partial style into the current one and notifies
// listeners, throttled. Equal or empty updates are ignored.
func (m *StyleManager) Update(partial style.Style) {
	m.apply(partial, false)
}

// ApplyLoaded merges a style that came from a file or project, additionally
// firing the loaded event.
func (m *StyleManager) ApplyLoaded(partial style.Style) {
	m.apply(partial, true)
}

// ResetToDefault restores the built-in default style.
func (m *StyleManager) ResetToDefault() {
	m.log.Debugw("Resetting style to default")
	m.apply(style.Default(), true)
}

func (m *StyleManager) apply(partial style.Style, notifyLoaded bool) {
	m.mu.Lock()
	if len(partial) == 0 || partial.Equal(m.current) {
		m.mu.Unlock()
		return
	}

	m.log.Debugw("Updating style", "keys", len(partial))
	m.current.Merge(partial)

	snapshot := m.current
	changed := slices.Clone(m.changedListeners)
	loaded := slices.Clone(m.loadedListeners)
	m.mu.Unlock()

	m.changedThrottle.Call(func() {
		notify(m.log, "style_changed", changed, snapshot)
	})
	if notifyLoaded {
		m.loadedThrottle.Call(func() {
			notify(m.log, "style_loaded", loaded, snapshot)
		})
	}
}

// Save writes the current style to a JSON file.
func (m *StyleManager) Save(path string) error {
	m.mu.Lock()
	snapshot := m.current.Clone()
	m.mu.Unlock()

	if err := style.Save(snapshot, path); err != nil {
		m.log.Errorw("Failed to save style", "path", path, "error", err)
		return err
	}
	m.log.Infow("Style saved", "path", path)
	return nil
}

// Load reads a style file merged over the defaults and applies it. Partial
// and outdated style files remain valid.
func (m *StyleManager) Load(path string) error {
	loaded, err := style.Load(path)
	if err != nil {
		m.log.Errorw("Failed to load style", "path", path, "error", err)
		return err
	}

	m.log.Debugw("Loaded style", "path", path)
	m.apply(loaded, true)
	return nil
}
