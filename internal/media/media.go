// Package media wraps the external ffmpeg/ffprobe tools used for probing,
// preview rendering and burned-in subtitle export.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// FFprobe probes media files for the video manager.
type FFprobe struct{}

// Duration returns the duration of a media file in seconds.
func (FFprobe) Duration(path string) (float64, error) {
	return Duration(path)
}

// Duration returns the duration of a media file in seconds.
func Duration(path string) (float64, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", path)
	}

	ffprobePath, err := FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w: %s", err, stderr.String())
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}

	return seconds, nil
}

// RenderFrame captures a single frame at the given timestamp with subtitles
// rendered over it, and returns the written image path.
func RenderFrame(ctx context.Context, videoPath, assPath string, timestamp float64, outputPath string) (string, error) {
	workDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	input := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": timestamp})
	output := input.Output(outputPath, ffmpeg.KwArgs{
		"vf":      "ass=" + filterPath(assPath, workDir),
		"vframes": 1,
		"q:v":     2,
	}).OverWriteOutput()

	if err := runFFmpeg(ctx, output, workDir); err != nil {
		return "", fmt.Errorf("preview frame generation failed: %w", err)
	}
	return outputPath, nil
}

// BurnSubtitles renders the subtitle file into the video stream, copying the
// audio, and returns the written video path.
func BurnSubtitles(ctx context.Context, videoPath, assPath, outputPath string) (string, error) {
	workDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	output := ffmpeg.Input(videoPath).Output(outputPath, ffmpeg.KwArgs{
		"vf":  "ass=" + filterPath(assPath, workDir),
		"c:a": "copy",
	}).OverWriteOutput()

	if err := runFFmpeg(ctx, output, workDir); err != nil {
		return "", fmt.Errorf("subtitle burn-in failed: %w", err)
	}
	return outputPath, nil
}

// holds options for audio extraction
type ExtractAudioOptions struct {
	Format     string // Output format (wav, mp3, aac, flac)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1 = mono, 2 = stereo)
	Bitrate    string // Bitrate for lossy formats (e.g., "128k")
}

// returns sensible defaults for transcription input
func DefaultExtractAudioOptions() ExtractAudioOptions {
	return ExtractAudioOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// ExtractAudio pulls the audio track out of a video file.
func ExtractAudio(ctx context.Context, videoPath, outputPath string, opts ExtractAudioOptions) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn": "",
		"ar": opts.SampleRate,
		"ac": opts.Channels,
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "aac":
		kwargs["acodec"] = "aac"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}

	output := ffmpeg.Input(videoPath).Output(outputPath, kwargs).OverWriteOutput()
	if err := runFFmpeg(ctx, output, filepath.Dir(outputPath)); err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}
	return nil
}

// runFFmpeg compiles the ffmpeg-go pipeline into a command run from workDir
// so filter arguments can use relative paths, and wraps failures with the
// tool's diagnostic output.
func runFFmpeg(ctx context.Context, stream *ffmpeg.Stream, workDir string) error {
	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return err
	}

	cmd := stream.SetFfmpegPath(ffmpegPath).Compile()
	cmd.Dir = workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, stderr.String())
		}
		return nil
	}
}

// filterPath rewrites a path relative to workDir with forward slashes, since
// absolute paths with drive letters break ffmpeg filter arguments.
func filterPath(path, workDir string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(absDir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpeg", ".mpg", ".3gp":
		return true
	}
	return false
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".wav", ".aac", ".flac", ".ogg", ".m4a", ".wma", ".aiff":
		return true
	}
	return false
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
