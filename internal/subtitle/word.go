package subtitle

import "strings"

// Word is the smallest timed subtitle unit. Text is trimmed on construction;
// Start and End are in seconds.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func NewWord(text string, start, end float64) Word {
	return Word{
		Text:  strings.TrimSpace(text),
		Start: start,
		End:   end,
	}
}

func EmptyWord() Word {
	return Word{}
}
