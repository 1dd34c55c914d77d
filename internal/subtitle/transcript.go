package subtitle

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingSegments is returned when transcript data lacks the top-level
// "segments" key.
var ErrMissingSegments = errors.New("invalid transcription format: missing key \"segments\"")

// TranscriptWord is a single word from the speech-recognition output, with
// timestamps in seconds.
type TranscriptWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptSegment is one recognizer-level segment. Its boundaries are not
// preserved by segmentation; the words are consumed as one flat stream.
type TranscriptSegment struct {
	Words []TranscriptWord `json:"words"`
}

// Transcript is the raw word-level speech-recognition output.
type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
}

// UnmarshalJSON decodes a transcript segment, silently dropping word entries
// that are not objects or whose "word" field is not a string.
func (s *TranscriptSegment) UnmarshalJSON(data []byte) error {
	var aux struct {
		Words []json.RawMessage `json:"words"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Words = s.Words[:0]
	for _, raw := range aux.Words {
		var probe struct {
			Word  json.RawMessage `json:"word"`
			Start float64         `json:"start"`
			End   float64         `json:"end"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}
		var text string
		if err := json.Unmarshal(probe.Word, &text); err != nil {
			continue
		}
		s.Words = append(s.Words, TranscriptWord{
			Word:  text,
			Start: probe.Start,
			End:   probe.End,
		})
	}
	return nil
}

// ParseTranscript decodes transcript JSON, validating that the top-level
// "segments" key is present.
func ParseTranscript(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	if t.Segments == nil {
		return nil, ErrMissingSegments
	}
	return &t, nil
}
