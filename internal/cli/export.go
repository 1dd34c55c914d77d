package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [project file]",
	Short: "Export subtitles from an .asproj project archive",
	Long: `Opens a project archive and exports its subtitles.

The bundled style is applied to ASS output. With --format mp4 the
subtitles are burned into the bundled video.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", "srt", "Export format (srt, ass, mp4)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	projectPath := args[0]
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "srt" && format != "ass" && format != "mp4" {
		return fmt.Errorf("unsupported format: %s (use srt, ass, or mp4)", format)
	}

	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Project.Open(projectPath); err != nil {
		return fmt.Errorf("failed to open project: %w", err)
	}
	doc := sess.Subtitles.Document()
	logger.Infow("Project opened",
		"path", projectPath,
		"segments", len(doc.Segments))

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		base := strings.TrimSuffix(projectPath, filepath.Ext(projectPath))
		outputPath = base + "." + format
	}

	if format == "mp4" {
		if err := burnToVideo(ctx, doc, sess.Style.Style(), sess.Video.Path(), outputPath); err != nil {
			return err
		}
	} else if err := writeSubtitles(doc, sess.Style.Style(), format, outputPath); err != nil {
		return err
	}

	fmt.Printf("Exported to: %s\n", outputPath)
	return nil
}
