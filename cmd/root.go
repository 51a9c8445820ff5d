package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/calgrid/internal/config"
	"github.com/teemow/calgrid/internal/logging"
)

// rootCmd represents the base command for the calgrid application
var rootCmd = &cobra.Command{
	Use:   "calgrid",
	Short: "A themed calendar grid for Google Calendar",
	Long: `calgrid renders a day, 3-day or week calendar grid with hour rows and
a color theme derived from a single source color.

It can run as:
  - A one-shot renderer (default): calgrid render
  - A terminal UI: calgrid tui
  - A web UI with Google sign-in: calgrid serve
  - An MCP (Model Context Protocol) server for AI assistants: calgrid mcp`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile   string
	debugMode bool
	logFormat string

	// cfg and logger are set before any subcommand runs.
	cfg    *config.Config
	logger = slog.Default()
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calgrid version %s\n" .Version}}`)

	// If no subcommand is provided, render the current week
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "render")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the process logger.
// Flags given on the command line win over the config file.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	opts := logging.Options{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Writer: cmd.ErrOrStderr(),
	}
	if debugMode {
		opts.Level = "debug"
	}
	if cmd.Flags().Changed("log-format") {
		if logFormat != logging.FormatText && logFormat != logging.FormatJSON {
			return fmt.Errorf("unsupported log format %q (supported: text, json)", logFormat)
		}
		opts.Format = logFormat
	}

	cfg = c
	logger = logging.Setup(opts)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/calgrid/calgrid.yaml or ./calgrid.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "Log format: text or json")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
