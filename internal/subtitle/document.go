package subtitle

import (
	"encoding/json"
	"sort"
	"strings"
)

// Document is the full subtitle track: all segments for one video, kept
// sorted by (start, end) through Refresh.
type Document struct {
	Segments []*Segment
}

func EmptyDocument() *Document {
	return &Document{}
}

// FromTranscription segments a word-level transcript into a new document
// using the default segmentation settings.
func FromTranscription(t *Transcript) (*Document, error) {
	return SegmentTranscription(t, DefaultMaxChars, DefaultBreakChars)
}

// SegmentTranscription segments a word-level transcript into a new document
// with the given line length limit and break characters.
func SegmentTranscription(t *Transcript, maxChars int, breakChars string) (*Document, error) {
	chunks, err := SegmentWords(t, maxChars, breakChars)
	if err != nil {
		return nil, err
	}

	segments := make([]*Segment, 0, len(chunks))
	for _, chunk := range chunks {
		words := make([]Word, 0, len(chunk.Words))
		for _, tw := range chunk.Words {
			words = append(words, NewWord(tw.Word, tw.Start, tw.End))
		}
		segments = append(segments, NewSegment(words))
	}

	return &Document{Segments: segments}, nil
}

// AddSegment appends a segment and re-sorts the document.
func (d *Document) AddSegment(s *Segment) {
	if s == nil {
		s = EmptySegment()
	}
	d.Segments = append(d.Segments, s)
	d.Refresh()
}

// Refresh re-sorts the segments by (start, end).
func (d *Document) Refresh() {
	sort.SliceStable(d.Segments, func(i, j int) bool {
		if d.Segments[i].Start != d.Segments[j].Start {
			return d.Segments[i].Start < d.Segments[j].Start
		}
		return d.Segments[i].End < d.Segments[j].End
	})
}

// Equal reports structural equality of the segment sequences.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.Segments) != len(o.Segments) {
		return false
	}
	for i := range d.Segments {
		if !d.Segments[i].Equal(o.Segments[i]) {
			return false
		}
	}
	return true
}

// String renders the document as one line of text per segment.
func (d *Document) String() string {
	lines := make([]string, len(d.Segments))
	for i, s := range d.Segments {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

type documentJSON struct {
	Segments []*Segment `json:"segments"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	segments := d.Segments
	if segments == nil {
		segments = []*Segment{}
	}
	return json.Marshal(documentJSON{Segments: segments})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var aux documentJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Segments = aux.Segments
	d.Refresh()
	return nil
}
