package cli

import (
	"fmt"
	"os"

	"github.com/mateusz-kow/Auto-Subs/internal/manager"
	"github.com/mateusz-kow/Auto-Subs/internal/media"
)

// session wires the video, subtitles, style and project managers together
// so CLI commands run through the same project lifecycle as the editor.
type session struct {
	Video     *manager.VideoManager
	Subtitles *manager.SubtitlesManager
	Style     *manager.StyleManager
	Project   *manager.ProjectManager

	scratchDir string
}

func newSession() (*session, error) {
	scratchDir, err := os.MkdirTemp("", "auto-subs-session-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	video := manager.NewVideoManager(logger, media.FFprobe{})
	subtitles := manager.NewSubtitlesManager(logger)
	styleManager := manager.NewStyleManager(logger, 0)
	video.RegisterListener(subtitles)

	return &session{
		Video:      video,
		Subtitles:  subtitles,
		Style:      styleManager,
		Project:    manager.NewProjectManager(logger, video, subtitles, styleManager, scratchDir),
		scratchDir: scratchDir,
	}, nil
}

// Close removes the session's scratch directory and the extracted project
// files inside it.
func (s *session) Close() {
	os.RemoveAll(s.scratchDir)
}
