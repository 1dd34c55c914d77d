// Package transcribe provides the word-level speech-to-text engines consumed
// by the transcription manager.
package transcribe

import (
	"context"
	"fmt"

	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
)

// Engine transcribes an audio file into a word-level transcript.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string) (*subtitle.Transcript, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // Source language of the audio, optional
	Model    string
	Prompt   string
}

// creates an engine based on provider
func Factory(ctx context.Context, provider Provider, apiKey string, opts Options) (Engine, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIEngine(apiKey, opts)
	case ProviderGemini:
		return NewGeminiEngine(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
