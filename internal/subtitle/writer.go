package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mateusz-kow/Auto-Subs/internal/style"
)

// highlightReset restores the Default style after a highlighted word.
const highlightReset = `{\r}`

// SubRip format
type SRTWriter struct{}

// Advanced SubStation Alpha format; the header is built from the style
// document, and a highlight sub-style switches the writer into per-word
// karaoke mode.
type ASSWriter struct {
	Style style.Style
}

// Write writes the document to an SRT file, one cue per segment in document
// order.
func (w *SRTWriter) Write(doc *Document, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	for i, segment := range doc.Segments {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(segment.Start),
			formatSRTTime(segment.End)))

		sb.WriteString(segment.String())
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// Write writes the document to an ASS file.
func (w *ASSWriter) Write(doc *Document, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(w.Render(doc)), 0644)
}

// Render produces the full ASS script as a string.
func (w *ASSWriter) Render(doc *Document) string {
	var sb strings.Builder
	sb.WriteString(style.ASSHeader(w.Style))

	if highlight, ok := w.Style.Highlight(); ok {
		w.renderHighlighted(&sb, doc, highlight)
	} else {
		w.renderPlain(&sb, doc)
	}

	sb.WriteString("\n")
	return sb.String()
}

func (w *ASSWriter) renderPlain(sb *strings.Builder, doc *Document) {
	for _, segment := range doc.Segments {
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTime(segment.Start),
			formatASSTime(segment.End),
			escapeASSText(segment.String())))
	}
}

// renderHighlighted emits one dialogue line per word: the line shows the
// whole segment with the active word wrapped in an inline override, and
// spans from the word's start to the next word's start (or its own end for
// the last word).
func (w *ASSWriter) renderHighlighted(sb *strings.Builder, doc *Document, highlight style.Highlight) {
	override := highlightOverride(highlight)

	for _, segment := range doc.Segments {
		for i, word := range segment.Words {
			start := word.Start
			end := word.End
			if i+1 < len(segment.Words) {
				end = segment.Words[i+1].Start
			}

			parts := make([]string, len(segment.Words))
			for j, other := range segment.Words {
				if i == j {
					parts[j] = override + other.Text + highlightReset
				} else {
					parts[j] = other.Text
				}
			}

			sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
				formatASSTime(start),
				formatASSTime(end),
				escapeASSText(strings.Join(parts, " "))))
		}
	}
}

// highlightOverride builds the inline tag block for the active word.
func highlightOverride(h style.Highlight) string {
	var sb strings.Builder
	sb.WriteString("{")
	if h.TextColor != "" {
		sb.WriteString(`\1c` + h.TextColor)
	}
	if h.BorderColor != "" {
		sb.WriteString(`\3c` + h.BorderColor)
	}
	if h.Fade {
		sb.WriteString(`\fad(150,150)`)
	}
	sb.WriteString("}")
	return sb.String()
}

func formatSRTTime(seconds float64) string {
	whole := int(seconds)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	millis := int((seconds - float64(whole)) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

func formatASSTime(seconds float64) string {
	whole := int(seconds)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	centis := int((seconds - float64(whole)) * 100)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", `\N`)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
