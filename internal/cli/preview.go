package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateusz-kow/Auto-Subs/internal/media"
)

var previewCmd = &cobra.Command{
	Use:   "preview [project file]",
	Short: "Render a single styled frame from a project",
	Long: `Renders one frame of the project's video with its subtitles applied,
useful for checking how a style looks without exporting the whole video.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Float64P("time", "t", 0, "Timestamp of the frame in seconds")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	projectPath := args[0]
	timestamp, _ := cmd.Flags().GetFloat64("time")
	if timestamp < 0 {
		return fmt.Errorf("timestamp must not be negative")
	}

	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Project.Open(projectPath); err != nil {
		return fmt.Errorf("failed to open project: %w", err)
	}

	assPath := filepath.Join(sess.scratchDir, "subtitles.ass")
	if err := writeSubtitles(sess.Subtitles.Document(), sess.Style.Style(), "ass", assPath); err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		base := strings.TrimSuffix(projectPath, filepath.Ext(projectPath))
		outputPath = fmt.Sprintf("%s_%.2fs.png", base, timestamp)
	}

	logger.Infow("Rendering preview frame", "timestamp", timestamp)
	if _, err := media.RenderFrame(ctx, sess.Video.Path(), assPath, timestamp, outputPath); err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}

	fmt.Printf("Frame saved to: %s\n", outputPath)
	return nil
}
