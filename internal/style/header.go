package style

import (
	"fmt"
	"math"
	"strings"
)

// headerDefaults are the fallback values for ASS header fields; they are
// deliberately distinct from Default() so that header generation never emits
// an empty field even for style documents missing keys.
var headerDefaults = map[string]any{
	"title":                    "Untitled",
	"font":                     "Arial",
	"font_size":                float64(36),
	"primary_color":            "&H00FFFFFF",
	"secondary_color":          "&H000000FF",
	"outline_color":            "&H00000000",
	"back_color":               "&H64000000",
	"bold":                     float64(0),
	"italic":                   float64(0),
	"underline":                float64(0),
	"strikeout":                float64(0),
	"scale_x":                  float64(100),
	"scale_y":                  float64(100),
	"spacing":                  float64(0),
	"angle":                    float64(0),
	"border_style":             float64(1),
	"outline":                  float64(1),
	"shadow":                   float64(0),
	"alignment":                float64(2),
	"margin_l":                 float64(10),
	"margin_r":                 float64(10),
	"margin_v":                 float64(10),
	"encoding":                 float64(1),
	"play_res_x":               float64(1920),
	"play_res_y":               float64(1080),
	"wrap_style":               float64(0),
	"scaled_border_and_shadow": "yes",
}

// ASSHeader builds the [Script Info] and [V4+ Styles] sections plus the
// [Events] format line for the given style, falling back to headerDefaults
// for any missing key.
func ASSHeader(s Style) string {
	get := func(key string) string {
		v, ok := s[key]
		if !ok || v == nil {
			v = headerDefaults[key]
		}
		return formatField(v)
	}

	var sb strings.Builder
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", get("title")))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString(fmt.Sprintf("PlayResX: %s\n", get("play_res_x")))
	sb.WriteString(fmt.Sprintf("PlayResY: %s\n", get("play_res_y")))
	sb.WriteString(fmt.Sprintf("WrapStyle: %s\n", get("wrap_style")))
	sb.WriteString(fmt.Sprintf("ScaledBorderAndShadow: %s\n\n", get("scaled_border_and_shadow")))

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")

	fields := []string{
		"font", "font_size", "primary_color", "secondary_color",
		"outline_color", "back_color", "bold", "italic", "underline",
		"strikeout", "scale_x", "scale_y", "spacing", "angle",
		"border_style", "outline", "shadow", "alignment",
		"margin_l", "margin_r", "margin_v", "encoding",
	}
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = get(f)
	}
	sb.WriteString("Style: Default," + strings.Join(values, ",") + "\n\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	return sb.String()
}

func formatField(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == math.Trunc(val) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case int:
		return fmt.Sprintf("%d", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", val)
	}
}
