// Package style holds the subtitle rendering configuration: a versionless
// key/value document merged against hardcoded defaults.
package style

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// Style is a flat mapping of rendering attributes (font, colors, margins,
// alignment) plus one nested "highlight_style" sub-mapping.
type Style map[string]any

// Highlight is the karaoke-style active-word styling extracted from the
// "highlight_style" sub-mapping.
type Highlight struct {
	TextColor   string
	BorderColor string
	Fade        bool
}

// Default returns a fresh copy of the built-in style document.
func Default() Style {
	return Style{
		"title":                    "Default",
		"font":                     "Comic Sans MS",
		"font_size":                float64(80),
		"primary_color":            "&H00FFAAFF",
		"secondary_color":          "&H00000000",
		"outline_color":            "&H005D3E5D",
		"back_color":               "&H00442E44",
		"bold":                     float64(-1),
		"italic":                   float64(0),
		"underline":                float64(0),
		"strikeout":                float64(0),
		"scale_x":                  float64(100),
		"scale_y":                  float64(100),
		"spacing":                  float64(0),
		"angle":                    float64(0),
		"border_style":             float64(1),
		"outline":                  float64(8),
		"shadow":                   float64(10),
		"alignment":                float64(2),
		"margin_l":                 float64(10),
		"margin_r":                 float64(10),
		"margin_v":                 float64(350),
		"encoding":                 float64(0),
		"play_res_x":               float64(1920),
		"play_res_y":               float64(1080),
		"wrap_style":               float64(0),
		"scaled_border_and_shadow": "yes",
		"highlight_style": map[string]any{
			"text_color":   "&H00FFFF55",
			"border_color": "&H00353512",
			"fade":         false,
		},
	}
}

// Clone returns a deep copy.
func (s Style) Clone() Style {
	out := make(Style, len(s))
	for k, v := range s {
		if sub, ok := v.(map[string]any); ok {
			subCopy := make(map[string]any, len(sub))
			for sk, sv := range sub {
				subCopy[sk] = sv
			}
			out[k] = subCopy
			continue
		}
		out[k] = v
	}
	return out
}

// Merge applies the keys of partial over s. Sub-mappings are merged key by
// key rather than replaced wholesale.
func (s Style) Merge(partial Style) {
	for k, v := range partial {
		sub, ok := v.(map[string]any)
		if !ok {
			s[k] = v
			continue
		}
		existing, ok := s[k].(map[string]any)
		if !ok {
			existing = make(map[string]any, len(sub))
			s[k] = existing
		}
		for sk, sv := range sub {
			existing[sk] = sv
		}
	}
}

// Equal reports deep structural equality.
func (s Style) Equal(o Style) bool {
	return reflect.DeepEqual(map[string]any(s), map[string]any(o))
}

// Highlight returns the highlight sub-style, if one is set.
func (s Style) Highlight() (Highlight, bool) {
	sub, ok := s["highlight_style"].(map[string]any)
	if !ok || len(sub) == 0 {
		return Highlight{}, false
	}
	h := Highlight{}
	if v, ok := sub["text_color"].(string); ok {
		h.TextColor = v
	}
	if v, ok := sub["border_color"].(string); ok {
		h.BorderColor = v
	}
	if v, ok := sub["fade"].(bool); ok {
		h.Fade = v
	}
	if h.TextColor == "" && h.BorderColor == "" {
		return Highlight{}, false
	}
	return h, true
}

// Load reads a style JSON file and merges it over the defaults, so partial
// and old style files remain valid.
func Load(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style file: %w", err)
	}

	var loaded map[string]any
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse style file %s: %w", path, err)
	}

	merged := Default()
	merged.Merge(Style(loaded))
	return merged, nil
}

// Save writes the style as indented JSON.
func Save(s Style, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode style: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create style directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save style to %s: %w", path, err)
	}
	return nil
}
