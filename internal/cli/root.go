package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/config"
	"github.com/mkaraca/pitwall/internal/logger"
	"github.com/mkaraca/pitwall/internal/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	backendURL string
	apiKey     string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pitwall",
		Short: "Terminal F1 dashboard",
		Long: `Pitwall is a terminal dashboard for Formula 1 data. It shows current
standings, the latest race, historical seasons, and lets you upload and
analyze your own race datasets through the dashboard backend.

Run without a subcommand help is shown; "pitwall dash" starts the TUI.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			cfg, err := loader.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Flags override file and environment settings.
			if cmd.Flags().Changed("verbose") {
				cfg.Output.Verbose = verbose
			}
			if backendURL != "" {
				cfg.Backend.BaseURL = backendURL
			}
			if apiKey != "" {
				cfg.Backend.APIKey = apiKey
			}
			if noColor || cfg.Output.ColorMode == "never" {
				_ = os.Setenv("NO_COLOR", "1")
			}

			globalConfig = cfg
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend API root URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "OpenF1 API key for season fetches")

	// Add subcommands
	rootCmd.AddCommand(newDashCommand())
	rootCmd.AddCommand(newFilesCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			fmt.Printf("pitwall %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig returns the configuration loaded for this invocation.
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		globalConfig = config.DefaultConfig()
	}
	return globalConfig
}

// GetLogger returns a component logger gated on the verbose flag.
func GetLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// newAPIClient builds the backend client from the loaded configuration.
func newAPIClient() (*api.Client, error) {
	cfg := GetGlobalConfig()
	timeout := cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return api.NewClient(cfg.Backend.BaseURL, timeout)
}

// dashOptions assembles the TUI options from the loaded configuration.
func dashOptions(client *api.Client) ui.Options {
	cfg := GetGlobalConfig()
	return ui.Options{
		Client:          client,
		APIKey:          cfg.Backend.APIKey,
		DefaultYear:     cfg.Dashboard.DefaultYear,
		UploadStatusTTL: cfg.Dashboard.UploadStatusTTL,
		Logger:          GetLogger("dash"),
	}
}

// Global helpers
func isVerbose() bool {
	return verbose || (globalConfig != nil && globalConfig.Output.Verbose)
}
