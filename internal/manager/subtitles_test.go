package manager

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
)

type docRecorder struct {
	mu    sync.Mutex
	calls int
	last  *subtitle.Document
}

func (r *docRecorder) OnSubtitlesChanged(doc *subtitle.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = doc
}

func (r *docRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newSubtitlesFixture(t *testing.T) (*SubtitlesManager, *docRecorder) {
	t.Helper()
	m := NewSubtitlesManager(logging.NewNop())
	rec := &docRecorder{}
	m.RegisterListener(rec)
	return m, rec
}

func threeSegmentDoc() *subtitle.Document {
	doc := subtitle.EmptyDocument()
	doc.AddSegment(subtitle.NewSegment([]subtitle.Word{
		{Text: "one", Start: 0.0, End: 0.5},
		{Text: "two", Start: 0.6, End: 1.0},
	}))
	doc.AddSegment(subtitle.NewSegment([]subtitle.Word{
		{Text: "three", Start: 2.0, End: 2.5},
	}))
	doc.AddSegment(subtitle.NewSegment([]subtitle.Word{
		{Text: "four", Start: 4.0, End: 4.5},
		{Text: "five", Start: 4.6, End: 5.0},
	}))
	return doc
}

func TestSetDocumentNotifies(t *testing.T) {
	m, rec := newSubtitlesFixture(t)

	m.SetDocument(threeSegmentDoc())
	if rec.count() != 1 {
		t.Errorf("expected 1 notification, got %d", rec.count())
	}
	if len(rec.last.Segments) != 3 {
		t.Errorf("listener got wrong document: %d segments", len(rec.last.Segments))
	}
}

func TestSetDocumentNil(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	m.SetDocument(nil)
	if m.Document() == nil || len(m.Document().Segments) != 0 {
		t.Error("nil document should become an empty document")
	}
}

func TestDeleteWord(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())

	if err := m.DeleteWord(0, 0); err != nil {
		t.Fatalf("DeleteWord failed: %v", err)
	}

	seg := m.Document().Segments[0]
	if len(seg.Words) != 1 || seg.Words[0].Text != "two" {
		t.Errorf("unexpected words after delete: %v", seg.Words)
	}
	if seg.Start != 0.6 {
		t.Errorf("segment bounds not refreshed: start %v", seg.Start)
	}
	if rec.count() != 2 {
		t.Errorf("expected 2 notifications, got %d", rec.count())
	}
}

func TestDeleteWordOutOfRange(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	if err := m.DeleteWord(0, 5); err == nil {
		t.Error("expected error for word index out of range")
	}
	if err := m.DeleteWord(9, 0); err == nil {
		t.Error("expected error for segment index out of range")
	}
	if rec.count() != before {
		t.Error("failed deletes must not notify")
	}
}

func TestDeleteSegments(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	// duplicates collapse to one deletion each
	if err := m.DeleteSegments([]int{2, 0, 2}); err != nil {
		t.Fatalf("DeleteSegments failed: %v", err)
	}

	doc := m.Document()
	if len(doc.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(doc.Segments))
	}
	if doc.Segments[0].String() != "three" {
		t.Errorf("wrong segment survived: %q", doc.Segments[0].String())
	}
	if rec.count() != before+1 {
		t.Errorf("expected one notification, got %d", rec.count()-before)
	}
}

func TestDeleteSegmentsRejectsAllOnAnyBadIndex(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	if err := m.DeleteSegments([]int{0, 7}); err == nil {
		t.Error("expected error for index out of range")
	}
	if len(m.Document().Segments) != 3 {
		t.Error("no segment may be deleted when any index is invalid")
	}
	if rec.count() != before {
		t.Error("failed deletes must not notify")
	}
}

func TestAddEmptySegmentIdempotent(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	m.AddEmptySegment()
	if len(m.Document().Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(m.Document().Segments))
	}
	// the empty segment sorts to position 0, so a second call is a no-op
	m.AddEmptySegment()
	if len(m.Document().Segments) != 4 {
		t.Error("second AddEmptySegment should be a no-op")
	}
	if rec.count() != before+1 {
		t.Errorf("expected one notification, got %d", rec.count()-before)
	}
}

func TestAddWordToSegment(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())

	if err := m.AddWordToSegment(1, subtitle.Word{Text: "early", Start: 1.5, End: 1.9}); err != nil {
		t.Fatalf("AddWordToSegment failed: %v", err)
	}
	seg := m.Document().Segments[1]
	if seg.Words[0].Text != "early" {
		t.Errorf("word not sorted into place: %v", seg.Words)
	}
	if seg.Start != 1.5 {
		t.Errorf("segment start not refreshed: %v", seg.Start)
	}
}

func TestMergeSegments(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	if err := m.MergeSegments([]int{2, 0}); err != nil {
		t.Fatalf("MergeSegments failed: %v", err)
	}

	doc := m.Document()
	if len(doc.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(doc.Segments))
	}

	// the merged segment's words are time-ordered even though the sources
	// were non-adjacent
	var merged *subtitle.Segment
	for _, seg := range doc.Segments {
		if len(seg.Words) == 4 {
			merged = seg
		}
	}
	if merged == nil {
		t.Fatalf("merged segment not found: %s", doc)
	}
	if merged.String() != "one two four five" {
		t.Errorf("merged words not time-sorted: %q", merged.String())
	}
	if rec.count() != before+1 {
		t.Errorf("expected one notification, got %d", rec.count()-before)
	}
}

func TestMergeSegmentsFewerThanTwoDistinct(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	if err := m.MergeSegments([]int{1, 1, 1}); err != nil {
		t.Fatalf("MergeSegments failed: %v", err)
	}
	if len(m.Document().Segments) != 3 {
		t.Error("merge of a single distinct index must not change the document")
	}
	if rec.count() != before {
		t.Error("no-op merge must not notify")
	}
}

func TestMergeSegmentsOutOfRange(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())

	if err := m.MergeSegments([]int{0, 9}); err == nil {
		t.Error("expected error for index out of range")
	}
	if len(m.Document().Segments) != 3 {
		t.Error("failed merge must not change the document")
	}
}

func TestResizeSegment(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())

	// segment 0 spans [0.0, 1.0]; double it to [2.0, 4.0]
	if err := m.ResizeSegment(0, 2.0, 4.0); err != nil {
		t.Fatalf("ResizeSegment failed: %v", err)
	}

	// resizing moved the segment past "three", so the document re-sorted
	var resized *subtitle.Segment
	for _, seg := range m.Document().Segments {
		if len(seg.Words) == 2 && seg.Words[0].Text == "one" {
			resized = seg
		}
	}
	if resized == nil {
		t.Fatalf("resized segment not found: %s", m.Document())
	}

	want := []subtitle.Word{
		{Text: "one", Start: 2.0, End: 3.0},
		{Text: "two", Start: 3.2, End: 4.0},
	}
	for i, w := range resized.Words {
		if w.Text != want[i].Text ||
			!closeTo(w.Start, want[i].Start) || !closeTo(w.End, want[i].End) {
			t.Errorf("word %d: got %+v, want %+v", i, w, want[i])
		}
	}
	if m.Document().Segments[0].String() != "three" {
		t.Errorf("document not re-sorted after resize: %s", m.Document())
	}
}

func TestResizeSegmentSilentRejections(t *testing.T) {
	tests := []struct {
		name     string
		newStart float64
		newEnd   float64
	}{
		{"zero duration", 1.0, 1.0},
		{"negative duration", 2.0, 1.0},
		{"below per-word minimum", 0.0, 0.05}, // 2 words need at least 0.1s
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newSubtitlesFixture(t)
			m.SetDocument(threeSegmentDoc())
			before := rec.count()
			original := append([]subtitle.Word(nil), m.Document().Segments[0].Words...)

			if err := m.ResizeSegment(0, tt.newStart, tt.newEnd); err != nil {
				t.Fatalf("rejection must be silent, got error: %v", err)
			}
			if !reflect.DeepEqual(m.Document().Segments[0].Words, original) {
				t.Error("rejected resize must not modify words")
			}
			if rec.count() != before {
				t.Error("rejected resize must not notify")
			}
		})
	}
}

func TestSetWord(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	if err := m.SetWord(0, 0, subtitle.Word{Text: "uno", Start: 0.0, End: 0.5}); err != nil {
		t.Fatalf("SetWord failed: %v", err)
	}
	if m.Document().Segments[0].Words[0].Text != "uno" {
		t.Error("word not replaced")
	}
	if rec.count() != before+1 {
		t.Errorf("expected one notification, got %d", rec.count()-before)
	}

	// identical replacement is a silent no-op
	if err := m.SetWord(0, 0, subtitle.Word{Text: "uno", Start: 0.0, End: 0.5}); err != nil {
		t.Fatalf("SetWord failed: %v", err)
	}
	if rec.count() != before+1 {
		t.Error("identical replacement must not notify")
	}
}

func TestSetWordResorts(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())

	// move "one" after "two"
	if err := m.SetWord(0, 0, subtitle.Word{Text: "one", Start: 1.2, End: 1.5}); err != nil {
		t.Fatalf("SetWord failed: %v", err)
	}
	if m.Document().Segments[0].String() != "two one" {
		t.Errorf("segment not re-sorted: %q", m.Document().Segments[0].String())
	}
}

func TestSetWordResortsDocument(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	doc := subtitle.EmptyDocument()
	doc.AddSegment(subtitle.NewSegment([]subtitle.Word{
		{Text: "alpha", Start: 0.0, End: 0.4},
	}))
	doc.AddSegment(subtitle.NewSegment([]subtitle.Word{
		{Text: "beta", Start: 1.0, End: 1.4},
	}))
	m.SetDocument(doc)

	// move "alpha" past "beta"
	if err := m.SetWord(0, 0, subtitle.Word{Text: "alpha", Start: 2.0, End: 2.4}); err != nil {
		t.Fatalf("SetWord failed: %v", err)
	}
	segs := m.Document().Segments
	if segs[0].String() != "beta" || segs[1].String() != "alpha" {
		t.Errorf("document not re-sorted: %q, %q", segs[0].String(), segs[1].String())
	}
}

func TestDeleteWordResortsDocument(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	doc := subtitle.EmptyDocument()
	doc.AddSegment(subtitle.NewSegment([]subtitle.Word{
		{Text: "early", Start: 0.5, End: 0.8},
		{Text: "late", Start: 3.0, End: 3.5},
	}))
	doc.AddSegment(subtitle.NewSegment([]subtitle.Word{
		{Text: "middle", Start: 1.0, End: 1.4},
	}))
	m.SetDocument(doc)

	// dropping "early" moves the first segment's start past "middle"
	if err := m.DeleteWord(0, 0); err != nil {
		t.Fatalf("DeleteWord failed: %v", err)
	}
	segs := m.Document().Segments
	if segs[0].String() != "middle" || segs[1].String() != "late" {
		t.Errorf("document not re-sorted: %q, %q", segs[0].String(), segs[1].String())
	}
}

func TestAddWordToSegmentResortsDocument(t *testing.T) {
	m, _ := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())

	// a word before "one" pulls the last segment to the front
	if err := m.AddWordToSegment(2, subtitle.Word{Text: "zero", Start: -1.0, End: -0.5}); err != nil {
		t.Fatalf("AddWordToSegment failed: %v", err)
	}
	segs := m.Document().Segments
	if segs[0].String() != "zero four five" {
		t.Errorf("document not re-sorted: first segment %q", segs[0].String())
	}
}

func TestAddEmptyWordIdempotent(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	if err := m.AddEmptyWord(0); err != nil {
		t.Fatalf("AddEmptyWord failed: %v", err)
	}
	if len(m.Document().Segments[0].Words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(m.Document().Segments[0].Words))
	}
	// the empty word sorts to position 0, so a second call is a no-op
	if err := m.AddEmptyWord(0); err != nil {
		t.Fatalf("AddEmptyWord failed: %v", err)
	}
	if len(m.Document().Segments[0].Words) != 3 {
		t.Error("second AddEmptyWord should be a no-op")
	}
	if rec.count() != before+1 {
		t.Errorf("expected one notification, got %d", rec.count()-before)
	}
}

func TestOnVideoChangedClearsDocument(t *testing.T) {
	m, rec := newSubtitlesFixture(t)
	m.SetDocument(threeSegmentDoc())
	before := rec.count()

	m.OnVideoChanged("/some/new/video.mp4")
	if len(m.Document().Segments) != 0 {
		t.Error("document should be cleared when the video changes")
	}
	if rec.count() != before+1 {
		t.Error("clearing the document should notify")
	}
}

func TestOnTranscriptionChangedBuildsDocument(t *testing.T) {
	m, rec := newSubtitlesFixture(t)

	transcript := &subtitle.Transcript{Segments: []subtitle.TranscriptSegment{{
		Words: []subtitle.TranscriptWord{
			{Word: "Hello", Start: 0.0, End: 0.4},
			{Word: "world.", Start: 0.5, End: 0.9},
		},
	}}}
	m.OnTranscriptionChanged(transcript)

	deadline := time.After(2 * time.Second)
	for rec.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("document never rebuilt from transcription")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if m.Document().String() != "Hello world." {
		t.Errorf("unexpected document: %q", m.Document().String())
	}
}

func closeTo(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
