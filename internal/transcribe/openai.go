package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
)

// implements Engine using the OpenAI Audio API with word-level timestamps
type OpenAIEngine struct {
	client  openai.Client
	model   string
	options Options
}

// word entry from the verbose_json response
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string        `json:"text"`
	Words    []whisperWord `json:"words"`
	Language string        `json:"language"`
	Duration float64       `json:"duration"`
}

func NewOpenAIEngine(apiKey string, opts Options) (*OpenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAIEngine{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// Transcribe runs one transcription request with word timestamp granularity.
func (e *OpenAIEngine) Transcribe(ctx context.Context, audioPath string) (*subtitle.Transcript, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(e.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word"},
	}

	if e.options.Language != "" {
		params.Language = openai.String(e.options.Language)
	}
	if e.options.Prompt != "" {
		params.Prompt = openai.String(e.options.Prompt)
	}

	resp, err := e.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return parseVerboseJSONWords(resp.RawJSON())
}

// parseVerboseJSONWords converts a verbose_json payload into a transcript
// with one segment holding the flat word stream.
func parseVerboseJSONWords(rawJSON string) (*subtitle.Transcript, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Words) == 0 {
		return nil, fmt.Errorf("no word timestamps in response (text: %s)",
			truncateString(strings.TrimSpace(verboseResp.Text), 80))
	}

	words := make([]subtitle.TranscriptWord, 0, len(verboseResp.Words))
	for _, w := range verboseResp.Words {
		words = append(words, subtitle.TranscriptWord{
			Word:  w.Word,
			Start: w.Start,
			End:   w.End,
		})
	}

	return &subtitle.Transcript{
		Segments: []subtitle.TranscriptSegment{{Words: words}},
	}, nil
}
