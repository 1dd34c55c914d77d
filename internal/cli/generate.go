package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateusz-kow/Auto-Subs/internal/media"
	"github.com/mateusz-kow/Auto-Subs/internal/project"
	"github.com/mateusz-kow/Auto-Subs/internal/style"
	"github.com/mateusz-kow/Auto-Subs/internal/subtitle"
	"github.com/mateusz-kow/Auto-Subs/internal/transcribe"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media file]",
	Short: "Transcribe a media file and generate subtitles",
	Long: `Transcribes speech from a video or audio file and writes subtitles.

The transcript is segmented into short cues and exported in the requested
format. With --burn the subtitles are rendered into a new video file
instead. With --project an .asproj project archive is written alongside.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("provider", "", "Transcription provider (openai, gemini)")
	generateCmd.Flags().String("api-key", "", "API key for the transcription provider")
	generateCmd.Flags().StringP("model", "m", "", "Model to use for transcription")
	generateCmd.Flags().StringP("format", "f", "srt", "Subtitle format (srt, ass)")
	generateCmd.Flags().Int("max-chars", 0, "Maximum characters per subtitle segment")
	generateCmd.Flags().String("break-chars", "", "Characters that force a segment break")
	generateCmd.Flags().StringP("style", "s", "", "Style JSON file for ASS output")
	generateCmd.Flags().Bool("burn", false, "Burn the subtitles into a new video file")
	generateCmd.Flags().String("project", "", "Also write an .asproj project archive to this path")
	generateCmd.Flags().String("prompt", "", "Optional prompt to guide transcription")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if !media.IsMediaFile(inputPath) {
		return fmt.Errorf("unsupported media file: %s", inputPath)
	}

	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "srt" && format != "ass" {
		return fmt.Errorf("unsupported format: %s (use srt or ass)", format)
	}

	burn, _ := cmd.Flags().GetBool("burn")
	if burn && !media.IsVideoFile(inputPath) {
		return fmt.Errorf("--burn requires a video input")
	}

	transcript, err := transcribeInput(ctx, cmd, inputPath)
	if err != nil {
		return err
	}

	maxChars, _ := cmd.Flags().GetInt("max-chars")
	if maxChars <= 0 {
		maxChars = settings.MaxChars
	}
	breakChars, _ := cmd.Flags().GetString("break-chars")
	if breakChars == "" {
		breakChars = settings.BreakChars
	}

	doc, err := subtitle.SegmentTranscription(transcript, maxChars, breakChars)
	if err != nil {
		return fmt.Errorf("failed to segment transcript: %w", err)
	}
	logger.Infow("Transcript segmented", "segments", len(doc.Segments))

	st, err := loadStyle(cmd)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, format, burn)
	}

	if burn {
		if err := burnToVideo(ctx, doc, st, inputPath, outputPath); err != nil {
			return err
		}
	} else if err := writeSubtitles(doc, st, format, outputPath); err != nil {
		return err
	}
	logger.Infow("Subtitles written", "path", outputPath)

	if projectPath, _ := cmd.Flags().GetString("project"); projectPath != "" {
		if !media.IsVideoFile(inputPath) {
			return fmt.Errorf("--project requires a video input")
		}
		if err := project.Save(projectPath, doc, st, inputPath); err != nil {
			return fmt.Errorf("failed to write project archive: %w", err)
		}
		logger.Infow("Project archive written", "path", projectPath)
	}

	fmt.Printf("Subtitles saved to: %s\n", outputPath)
	return nil
}

// transcribeInput extracts audio when given a video and runs the configured
// transcription engine over it.
func transcribeInput(ctx context.Context, cmd *cobra.Command, inputPath string) (*subtitle.Transcript, error) {
	providerName, _ := cmd.Flags().GetString("provider")
	if providerName == "" {
		providerName = settings.Provider
	}
	provider := transcribe.Provider(strings.ToLower(providerName))

	apiKey, err := resolveAPIKey(cmd, provider)
	if err != nil {
		return nil, err
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = settings.Model
	}
	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = settings.Language
	}
	prompt, _ := cmd.Flags().GetString("prompt")

	engine, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language: language,
		Model:    model,
		Prompt:   prompt,
	})
	if err != nil {
		return nil, err
	}

	audioPath := inputPath
	if media.IsVideoFile(inputPath) {
		tempDir, err := os.MkdirTemp("", "auto-subs-audio-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer os.RemoveAll(tempDir)

		audioPath = filepath.Join(tempDir, "audio.mp3")
		logger.Infow("Extracting audio", "video", inputPath)
		if err := media.ExtractAudio(ctx, inputPath, audioPath, media.DefaultExtractAudioOptions()); err != nil {
			return nil, fmt.Errorf("failed to extract audio: %w", err)
		}
	}

	logger.Infow("Transcribing audio", "provider", provider, "model", model)
	transcript, err := engine.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	return transcript, nil
}

func loadStyle(cmd *cobra.Command) (style.Style, error) {
	stylePath, _ := cmd.Flags().GetString("style")
	if stylePath == "" {
		return style.Default(), nil
	}
	st, err := style.Load(stylePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load style: %w", err)
	}
	return st, nil
}

func writeSubtitles(doc *subtitle.Document, st style.Style, format, outputPath string) error {
	switch format {
	case "ass":
		w := &subtitle.ASSWriter{Style: st}
		return w.Write(doc, outputPath)
	default:
		w := &subtitle.SRTWriter{}
		return w.Write(doc, outputPath)
	}
}

func burnToVideo(ctx context.Context, doc *subtitle.Document, st style.Style, videoPath, outputPath string) error {
	tempDir, err := os.MkdirTemp("", "auto-subs-burn-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	assPath := filepath.Join(tempDir, "subtitles.ass")
	w := &subtitle.ASSWriter{Style: st}
	if err := w.Write(doc, assPath); err != nil {
		return err
	}

	logger.Infow("Burning subtitles", "video", videoPath)
	if _, err := media.BurnSubtitles(ctx, videoPath, assPath, outputPath); err != nil {
		return fmt.Errorf("failed to burn subtitles: %w", err)
	}
	return nil
}

func defaultOutputPath(inputPath, format string, burn bool) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if burn {
		return base + "_subtitled.mp4"
	}
	return base + "." + format
}
