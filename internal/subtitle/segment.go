package subtitle

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
)

// Segment is an ordered run of words rendered together as one subtitle cue.
// Start and End are derived from the words; callers that mutate Words directly
// must call Refresh before trusting them.
type Segment struct {
	Words []Word
	Start float64
	End   float64
}

func NewSegment(words []Word) *Segment {
	s := &Segment{Words: words}
	s.Refresh()
	return s
}

func EmptySegment() *Segment {
	return NewSegment(nil)
}

// Refresh re-sorts the words by (start, end) and re-derives the segment's
// start and end times. Both are 0 for an empty segment.
func (s *Segment) Refresh() {
	sort.SliceStable(s.Words, func(i, j int) bool {
		if s.Words[i].Start != s.Words[j].Start {
			return s.Words[i].Start < s.Words[j].Start
		}
		return s.Words[i].End < s.Words[j].End
	})
	if len(s.Words) == 0 {
		s.Start, s.End = 0, 0
		return
	}
	s.Start = s.Words[0].Start
	s.End = s.Words[len(s.Words)-1].End
}

// AddWord appends a word and refreshes the segment.
func (s *Segment) AddWord(w Word) {
	s.Words = append(s.Words, w)
	s.Refresh()
}

// Equal reports structural equality of the word sequences.
func (s *Segment) Equal(o *Segment) bool {
	if s == nil || o == nil {
		return s == o
	}
	return slices.Equal(s.Words, o.Words)
}

// String renders the segment as its word texts joined by spaces.
func (s *Segment) String() string {
	texts := make([]string, len(s.Words))
	for i, w := range s.Words {
		texts[i] = w.Text
	}
	return strings.Join(texts, " ")
}

type segmentJSON struct {
	Words []Word `json:"words"`
}

func (s *Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal(segmentJSON{Words: s.Words})
}

func (s *Segment) UnmarshalJSON(data []byte) error {
	var aux segmentJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = *NewSegment(aux.Words)
	return nil
}
