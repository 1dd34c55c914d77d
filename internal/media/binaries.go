package media

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

var (
	resolveOnce   sync.Once
	resolveErr    error
	ffmpegBinary  string
	ffprobeBinary string
)

// FFmpegPath returns the resolved ffmpeg binary path.
func FFmpegPath() (string, error) {
	resolve()
	if resolveErr != nil {
		return "", resolveErr
	}
	return ffmpegBinary, nil
}

// FFprobePath returns the resolved ffprobe binary path.
func FFprobePath() (string, error) {
	resolve()
	if resolveErr != nil {
		return "", resolveErr
	}
	return ffprobeBinary, nil
}

// resolve locates ffmpeg and ffprobe once: environment overrides first,
// then PATH lookup.
func resolve() {
	resolveOnce.Do(func() {
		ffmpegBinary = os.Getenv("AUTO_SUBS_FFMPEG_PATH")
		if ffmpegBinary == "" {
			path, err := exec.LookPath("ffmpeg")
			if err != nil {
				resolveErr = fmt.Errorf("ffmpeg not found: set AUTO_SUBS_FFMPEG_PATH or install ffmpeg: %w", err)
				return
			}
			ffmpegBinary = path
		}

		ffprobeBinary = os.Getenv("AUTO_SUBS_FFPROBE_PATH")
		if ffprobeBinary == "" {
			path, err := exec.LookPath("ffprobe")
			if err != nil {
				resolveErr = fmt.Errorf("ffprobe not found: set AUTO_SUBS_FFPROBE_PATH or install ffprobe: %w", err)
				return
			}
			ffprobeBinary = path
		}
	})
}
