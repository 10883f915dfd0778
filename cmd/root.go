package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
)

var (
	verbose   bool
	serverURL string

	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "powerha-copilot",
	Short: "AI-powered PowerHA cluster management from the terminal",
	Long: `PowerHA Copilot CLI - AI-powered high availability cluster management.

All cluster orchestration and AI logic runs on the PowerHA Copilot server;
this CLI authenticates, sends requests, and renders the results.

Quick start:
  powerha-copilot login           # Authenticate
  powerha-copilot chat            # Start interactive chat
  powerha-copilot cluster list    # List clusters

For more help:
  powerha-copilot --help
  powerha-copilot <command> --help`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand: drop into interactive chat, like the server docs say
		return runInteractiveChat(false)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "API server URL (overrides configured api_url)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig loads the persisted configuration and applies the --url override
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if serverURL != "" {
		cfg.APIURL = serverURL
	}
	return cfg, nil
}

// newClient opens a client scope for one command invocation
func newClient() (*internal.Client, *internal.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return internal.NewClient(cfg, internal.NewKeyringStore()), cfg, nil
}
