package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateusz-kow/Auto-Subs/internal/config"
	"github.com/mateusz-kow/Auto-Subs/internal/style"
	"github.com/mateusz-kow/Auto-Subs/internal/transcribe"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings and credentials",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider] [api key]",
	Short: "Store a provider API key in the OS keyring",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := transcribe.Provider(args[0])
		if provider != transcribe.ProviderOpenAI && provider != transcribe.ProviderGemini {
			return fmt.Errorf("unsupported provider: %s", args[0])
		}
		if err := config.StoreAPIKey(string(provider), args[1]); err != nil {
			return fmt.Errorf("failed to store API key: %w", err)
		}
		fmt.Printf("API key stored for %s\n", provider)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("settings file:   %s\n", dirs.SettingsPath())
		fmt.Printf("provider:        %s\n", settings.Provider)
		fmt.Printf("model:           %s\n", settings.Model)
		fmt.Printf("language:        %s\n", settings.Language)
		fmt.Printf("max chars:       %d\n", settings.MaxChars)
		fmt.Printf("break chars:     %q\n", settings.BreakChars)
		fmt.Printf("style throttle:  %dms\n", settings.StyleThrottleMS)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dirs.Ensure(); err != nil {
			return fmt.Errorf("failed to create application directories: %w", err)
		}
		path := dirs.SettingsPath()
		if err := config.SaveSettings(path, config.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		fmt.Printf("Settings written to: %s\n", path)
		return nil
	},
}

var configPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the style presets directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := style.NewPresetStore(dirs.Styles, logger)
		presets, err := store.List()
		if err != nil {
			return fmt.Errorf("failed to list style presets: %w", err)
		}
		if len(presets) == 0 {
			fmt.Printf("No style presets in %s\n", dirs.Styles)
			return nil
		}
		for _, p := range presets {
			fmt.Printf("%s\t%s\n", p.Name, p.Path)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPresetsCmd)
	rootCmd.AddCommand(configCmd)
}
