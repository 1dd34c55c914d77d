package style

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/throttle"
)

// Preset is a named style file inside the presets directory.
type Preset struct {
	Name string
	Path string
}

// PresetStore lists and watches the style presets directory.
type PresetStore struct {
	dir string
	log *logging.Logger
}

func NewPresetStore(dir string, log *logging.Logger) *PresetStore {
	return &PresetStore{dir: dir, log: log}
}

// List returns the presets sorted by name. A missing directory yields an
// empty list, not an error.
func (p *PresetStore) List() ([]Preset, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read presets directory: %w", err)
	}

	var presets []Preset
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		presets = append(presets, Preset{
			Name: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path: filepath.Join(p.dir, entry.Name()),
		})
	}

	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Name < presets[j].Name
	})
	return presets, nil
}

// Load reads one preset merged over the defaults.
func (p *PresetStore) Load(name string) (Style, error) {
	return Load(filepath.Join(p.dir, name+".json"))
}

// Save writes the style as a named preset.
func (p *PresetStore) Save(name string, s Style) error {
	return Save(s, filepath.Join(p.dir, name+".json"))
}

// Watch invokes onChange whenever the presets directory content changes,
// until ctx is cancelled. Rapid editor write bursts are debounced into one
// callback.
func (p *PresetStore) Watch(ctx context.Context, onChange func()) error {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create preset watcher: %w", err)
	}

	if err := watcher.Add(p.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch presets directory: %w", err)
	}

	debouncer := throttle.NewDebouncer(250 * time.Millisecond)

	go func() {
		defer func() {
			debouncer.Stop()
			_ = watcher.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
					continue
				}
				p.log.Debugw("Preset directory changed", "event", event.String())
				debouncer.Call(onChange)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warnw("Preset watcher error", "error", err)
			}
		}
	}()

	return nil
}
