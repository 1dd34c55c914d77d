package subtitle

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxChars is the character budget that closes a chunk.
	DefaultMaxChars = 10

	// DefaultBreakChars are the trailing punctuation marks that close a
	// chunk regardless of length.
	DefaultBreakChars = ".,!?"
)

// Chunk is one display-ready piece of a segmented transcript.
type Chunk struct {
	Start float64
	End   float64
	Text  string
	Words []TranscriptWord
}

// SegmentWords converts a word-level transcript into subtitle-ready chunks.
//
// All words are consumed as one flat, temporally-ordered stream; the
// recognizer's own segment boundaries are discarded. A chunk closes when the
// combined text reaches maxChars or the current word ends in one of
// breakChars. Words that are empty after trimming are dropped. Greedy and
// single-pass: a lone word longer than maxChars still yields a one-word chunk.
func SegmentWords(t *Transcript, maxChars int, breakChars string) ([]Chunk, error) {
	if t == nil || t.Segments == nil {
		return nil, ErrMissingSegments
	}

	var words []TranscriptWord
	for _, segment := range t.Segments {
		words = append(words, segment.Words...)
	}

	var chunks []Chunk
	var buffer []TranscriptWord
	var segmentStart float64

	for _, word := range words {
		text := strings.TrimSpace(word.Word)
		if text == "" {
			continue
		}

		if len(buffer) == 0 {
			segmentStart = word.Start
		}
		buffer = append(buffer, word)

		combined := combineWords(buffer)

		isLong := utf8.RuneCountInString(combined) >= maxChars
		lastRune, _ := utf8.DecodeLastRuneInString(text)
		isBreak := strings.ContainsRune(breakChars, lastRune)

		if isLong || isBreak {
			chunks = append(chunks, Chunk{
				Start: segmentStart,
				End:   word.End,
				Text:  combined,
				Words: append([]TranscriptWord(nil), buffer...),
			})
			buffer = buffer[:0]
		}
	}

	if len(buffer) > 0 {
		chunks = append(chunks, Chunk{
			Start: segmentStart,
			End:   buffer[len(buffer)-1].End,
			Text:  combineWords(buffer),
			Words: append([]TranscriptWord(nil), buffer...),
		})
	}

	return chunks, nil
}

func combineWords(words []TranscriptWord) string {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = strings.TrimSpace(w.Word)
	}
	return strings.Join(texts, " ")
}
