package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mateusz-kow/Auto-Subs/internal/config"
	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/transcribe"
)

var (
	verbose  bool
	logger   *logging.Logger
	dirs     config.Dirs
	settings config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "auto-subs",
	Short: "Subtitle generator and editor toolkit",
	Long: `Auto-Subs transcribes speech from video files, segments the transcript
into display-ready subtitle cues, and exports them as SRT, ASS, or
burned-in MP4.

Subtitles, style, and the source video can be bundled into .asproj
project archives.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is fine
		_ = godotenv.Load()

		logger = logging.NewLogger(verbose)

		var err error
		dirs, err = config.DefaultDirs()
		if err != nil {
			logger.Warnw("Failed to resolve application directories", "error", err)
			return
		}

		settings, err = config.LoadSettings(dirs.SettingsPath())
		if err != nil {
			logger.Warnw("Failed to load settings, using defaults", "error", err)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}

// resolveAPIKey looks up a provider's API key: flag, then environment, then
// the OS keyring.
func resolveAPIKey(cmd *cobra.Command, provider transcribe.Provider) (string, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey != "" {
		return apiKey, nil
	}

	envVar := strings.ToUpper(string(provider)) + "_API_KEY"
	if apiKey = os.Getenv(envVar); apiKey != "" {
		return apiKey, nil
	}

	if apiKey, err := config.APIKeyFromKeyring(string(provider)); err == nil {
		return apiKey, nil
	}

	return "", fmt.Errorf(
		"%s API key is required: use --api-key, set %s, or store one with 'auto-subs config set-key %s'",
		provider, envVar, provider,
	)
}
