package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
)

var (
	configURL       string
	configTheme     string
	configStreaming string
	configTimeout   int
	configShow      bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration.

Without flags (or with --show), the current configuration is printed.
Secrets are never stored in the configuration file; they live in the OS
credential store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig()
		if err != nil {
			return err
		}

		changed := false
		if configURL != "" {
			cfg.APIURL = configURL
			fmt.Printf("%s API URL set to: %s\n", successStyle.Render("✓"), configURL)
			changed = true
		}
		if configTheme != "" {
			if configTheme != "dark" && configTheme != "light" {
				return fmt.Errorf("invalid theme %q (expected dark or light)", configTheme)
			}
			cfg.Theme = configTheme
			fmt.Printf("%s Theme set to: %s\n", successStyle.Render("✓"), configTheme)
			changed = true
		}
		if configStreaming != "" {
			switch configStreaming {
			case "on":
				cfg.Streaming = true
			case "off":
				cfg.Streaming = false
			default:
				return fmt.Errorf("invalid streaming value %q (expected on or off)", configStreaming)
			}
			fmt.Printf("%s Streaming set to: %s\n", successStyle.Render("✓"), configStreaming)
			changed = true
		}
		if configTimeout > 0 {
			cfg.Timeout = configTimeout
			fmt.Printf("%s Timeout set to: %ds\n", successStyle.Render("✓"), configTimeout)
			changed = true
		}

		if changed {
			if err := cfg.Save(); err != nil {
				return err
			}
			if !configShow {
				return nil
			}
			fmt.Println()
		}

		// Show current configuration
		fmt.Println(sectionStyle.Render("Configuration"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("API URL"), cfg.APIURL)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("API Version"), cfg.APIVersion)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Theme"), cfg.Theme)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Output Format"), cfg.OutputFormat)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Language"), cfg.Language)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Streaming"), onOff(cfg.Streaming))
		fmt.Fprintf(w, "%s\t%ds\n", labelStyle.Render("Timeout"), cfg.Timeout)
		fmt.Fprintf(w, "%s\t%d\n", labelStyle.Render("Max Retries"), cfg.MaxRetries)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Authenticated"), yesNo(internal.IsAuthenticated(internal.NewKeyringStore())))
		if cfg.Username != "" {
			fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("User"), cfg.Username)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if cfg.Path != "" {
			fmt.Println("\n" + idStyle.Render("Config file: "+cfg.Path))
		}
		return nil
	},
}

func onOff(v bool) string {
	if v {
		return "Enabled"
	}
	return "Disabled"
}

func yesNo(v bool) string {
	if v {
		return successStyle.Render("Yes")
	}
	return errorStyle.Render("No")
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&configURL, "set-url", "", "Set the API server URL")
	configCmd.Flags().StringVar(&configTheme, "theme", "", "Set the theme (dark, light)")
	configCmd.Flags().StringVar(&configStreaming, "streaming", "", "Enable or disable streaming (on, off)")
	configCmd.Flags().IntVar(&configTimeout, "timeout", 0, "Set the request timeout in seconds")
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show current configuration")
}
