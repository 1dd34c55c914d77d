package media

import (
	"path/filepath"
	"testing"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.mp4", true},
		{"MOVIE.MKV", true},
		{"/path/to/clip.webm", true},
		{"song.mp3", false},
		{"document.txt", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := IsVideoFile(tt.path); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"SONG.WAV", true},
		{"/path/to/audio.flac", true},
		{"movie.mp4", false},
		{"notes.md", false},
	}
	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsMediaFile(t *testing.T) {
	if !IsMediaFile("a.mp4") || !IsMediaFile("a.mp3") {
		t.Error("video and audio files are media files")
	}
	if IsMediaFile("a.srt") {
		t.Error("subtitle files are not media files")
	}
}

func TestFilterPathRelative(t *testing.T) {
	dir := t.TempDir()
	assPath := filepath.Join(dir, "subs", "out.ass")

	got := filterPath(assPath, dir)
	if got != "subs/out.ass" {
		t.Errorf("filterPath = %q, want subs/out.ass", got)
	}
}

func TestFilterPathSameDir(t *testing.T) {
	dir := t.TempDir()
	assPath := filepath.Join(dir, "out.ass")

	if got := filterPath(assPath, dir); got != "out.ass" {
		t.Errorf("filterPath = %q, want out.ass", got)
	}
}

func TestDefaultExtractAudioOptions(t *testing.T) {
	opts := DefaultExtractAudioOptions()
	if opts.Format != "mp3" {
		t.Errorf("unexpected format: %q", opts.Format)
	}
	if opts.SampleRate != 16000 || opts.Channels != 1 {
		t.Errorf("unexpected rate/channels: %d/%d", opts.SampleRate, opts.Channels)
	}
}

func TestDurationMissingFile(t *testing.T) {
	if _, err := Duration(filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Error("expected error for missing file")
	}
}
