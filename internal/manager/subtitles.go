package manager

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
)

// minimum duration per word enforced when resizing, in seconds
const minWordDuration = 0.05

// SubtitlesChangedListener receives the whole document after any mutation.
type SubtitlesChangedListener interface {
	OnSubtitlesChanged(*subtitle.Document)
}

// SubtitlesManager owns the subtitle document and exposes every editing
// operation. Each successful mutation ends by notifying listeners with the
// full document.
type SubtitlesManager struct {
	mu        sync.Mutex
	log       *logging.Logger
	doc       *subtitle.Document
	listeners []func(*subtitle.Document)
}

func NewSubtitlesManager(log *logging.Logger) *SubtitlesManager {
	return &SubtitlesManager{
		log: log.Named("subtitles"),
		doc: subtitle.EmptyDocument(),
	}
}

// RegisterListener subscribes the candidate if it implements
// SubtitlesChangedListener.
func (m *SubtitlesManager) RegisterListener(candidate any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := candidate.(SubtitlesChangedListener); ok {
		m.listeners = append(m.listeners, l.OnSubtitlesChanged)
	}
}

// Document returns the current document. Callers must not mutate it outside
// this manager's methods.
func (m *SubtitlesManager) Document() *subtitle.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc
}

// SetDocument replaces the document wholesale and notifies listeners.
func (m *SubtitlesManager) SetDocument(doc *subtitle.Document) {
	m.mu.Lock()
	if doc == nil {
		doc = subtitle.EmptyDocument()
	}
	m.doc = doc
	m.mu.Unlock()
	m.log.Infow("Subtitles replaced", "segments", len(doc.Segments))
	m.notifyChanged()
}

// DeleteWord removes one word from a segment.
func (m *SubtitlesManager) DeleteWord(segmentIndex, wordIndex int) error {
	m.mu.Lock()
	segment, err := m.segmentAt(segmentIndex)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if wordIndex < 0 || wordIndex >= len(segment.Words) {
		m.mu.Unlock()
		return fmt.Errorf("word index %d out of range for segment %d", wordIndex, segmentIndex)
	}

	segment.Words = append(segment.Words[:wordIndex], segment.Words[wordIndex+1:]...)
	segment.Refresh()
	m.doc.Refresh()
	m.mu.Unlock()

	m.notifyChanged()
	return nil
}

// DeleteSegments removes the segments at the given indices.
func (m *SubtitlesManager) DeleteSegments(indices []int) error {
	m.mu.Lock()
	distinct := distinctIndices(indices)
	for _, index := range distinct {
		if index < 0 || index >= len(m.doc.Segments) {
			m.mu.Unlock()
			return fmt.Errorf("segment index %d out of range", index)
		}
	}

	// descending order avoids index shifts while deleting
	sort.Sort(sort.Reverse(sort.IntSlice(distinct)))
	for _, index := range distinct {
		m.doc.Segments = append(m.doc.Segments[:index], m.doc.Segments[index+1:]...)
	}
	m.doc.Refresh()
	m.mu.Unlock()

	m.notifyChanged()
	return nil
}

// AddEmptySegment appends an empty segment unless the document already
// starts with one.
func (m *SubtitlesManager) AddEmptySegment() {
	m.mu.Lock()
	if len(m.doc.Segments) > 0 && m.doc.Segments[0].Equal(subtitle.EmptySegment()) {
		m.mu.Unlock()
		return
	}
	m.doc.Segments = append(m.doc.Segments, subtitle.EmptySegment())
	m.doc.Refresh()
	m.mu.Unlock()

	m.notifyChanged()
}

// AddWordToSegment appends a word to a segment.
func (m *SubtitlesManager) AddWordToSegment(segmentIndex int, word subtitle.Word) error {
	m.mu.Lock()
	segment, err := m.segmentAt(segmentIndex)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	segment.AddWord(word)
	m.doc.Refresh()
	m.mu.Unlock()

	m.notifyChanged()
	return nil
}

// MergeSegments concatenates the words of the named segments into one new
// segment, replacing the originals. Fewer than two distinct indices is a
// no-op.
func (m *SubtitlesManager) MergeSegments(indices []int) error {
	m.mu.Lock()
	distinct := distinctIndices(indices)
	if len(distinct) < 2 {
		m.mu.Unlock()
		return nil
	}
	for _, index := range distinct {
		if index < 0 || index >= len(m.doc.Segments) {
			m.mu.Unlock()
			return fmt.Errorf("segment index %d out of range", index)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(distinct)))

	var words []subtitle.Word
	for _, index := range distinct {
		words = append(words, m.doc.Segments[index].Words...)
		m.doc.Segments = append(m.doc.Segments[:index], m.doc.Segments[index+1:]...)
	}

	// NewSegment sorts the words by time, so the merged segment is ordered
	// even though the sources were visited in reverse index order.
	m.doc.AddSegment(subtitle.NewSegment(words))
	m.mu.Unlock()

	m.notifyChanged()
	return nil
}

// ResizeSegment moves a segment to a new time range, scaling every word
// proportionally. Resizes to a non-positive duration, from a non-positive
// duration, or below the per-word minimum are rejected silently.
func (m *SubtitlesManager) ResizeSegment(segmentIndex int, newStart, newEnd float64) error {
	m.mu.Lock()
	segment, err := m.segmentAt(segmentIndex)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	originalStart := segment.Start
	originalDuration := segment.End - originalStart
	newDuration := newEnd - newStart

	if originalDuration <= 0 || newDuration <= 0 {
		m.mu.Unlock()
		m.log.Warnw("Resize rejected: zero or negative duration",
			"segment", segmentIndex, "new_duration", newDuration)
		return nil
	}

	if minDuration := float64(len(segment.Words)) * minWordDuration; newDuration < minDuration {
		m.mu.Unlock()
		m.log.Warnw("Resize rejected: below minimum duration",
			"segment", segmentIndex, "new_duration", newDuration, "minimum", minDuration)
		return nil
	}

	scale := newDuration / originalDuration
	for i := range segment.Words {
		startOffset := segment.Words[i].Start - originalStart
		endOffset := segment.Words[i].End - originalStart
		segment.Words[i].Start = newStart + startOffset*scale
		segment.Words[i].End = newStart + endOffset*scale
	}
	segment.Refresh()
	m.doc.Refresh()
	m.mu.Unlock()

	m.notifyChanged()
	return nil
}

// SetWord replaces a word. An identical replacement fires no notification.
func (m *SubtitlesManager) SetWord(segmentIndex, wordIndex int, word subtitle.Word) error {
	m.mu.Lock()
	segment, err := m.segmentAt(segmentIndex)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if wordIndex < 0 || wordIndex >= len(segment.Words) {
		m.mu.Unlock()
		return fmt.Errorf("word index %d out of range for segment %d", wordIndex, segmentIndex)
	}
	if segment.Words[wordIndex] == word {
		m.mu.Unlock()
		return nil
	}

	segment.Words[wordIndex] = word
	segment.Refresh()
	m.doc.Refresh()
	m.mu.Unlock()

	m.notifyChanged()
	return nil
}

// AddEmptyWord appends an empty word to a segment unless the segment already
// starts with one.
func (m *SubtitlesManager) AddEmptyWord(segmentIndex int) error {
	m.mu.Lock()
	segment, err := m.segmentAt(segmentIndex)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if len(segment.Words) > 0 && segment.Words[0] == subtitle.EmptyWord() {
		m.mu.Unlock()
		return nil
	}

	segment.AddWord(subtitle.EmptyWord())
	m.doc.Refresh()
	m.mu.Unlock()

	m.notifyChanged()
	return nil
}

// OnTranscriptionChanged rebuilds the document from a fresh transcript. The
// segmentation runs off the calling goroutine.
func (m *SubtitlesManager) OnTranscriptionChanged(t *subtitle.Transcript) {
	go func() {
		doc, err := subtitle.FromTranscription(t)
		if err != nil {
			m.log.Errorw("Failed to build subtitles from transcription", "error", err)
			return
		}
		m.SetDocument(doc)
	}()
}

// OnVideoChanged clears the document; subtitles never outlive their video.
func (m *SubtitlesManager) OnVideoChanged(string) {
	m.mu.Lock()
	m.doc = subtitle.EmptyDocument()
	m.mu.Unlock()
	m.notifyChanged()
}

func (m *SubtitlesManager) segmentAt(index int) (*subtitle.Segment, error) {
	if index < 0 || index >= len(m.doc.Segments) {
		return nil, fmt.Errorf("segment index %d out of range", index)
	}
	return m.doc.Segments[index], nil
}

func (m *SubtitlesManager) notifyChanged() {
	m.mu.Lock()
	doc := m.doc
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	notify(m.log, "subtitles_changed", listeners, doc)
}

func distinctIndices(indices []int) []int {
	seen := make(map[int]struct{}, len(indices))
	out := make([]int, 0, len(indices))
	for _, index := range indices {
		if _, ok := seen[index]; ok {
			continue
		}
		seen[index] = struct{}{}
		out = append(out, index)
	}
	return out
}
