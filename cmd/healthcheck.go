package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check connectivity to the PowerHA Copilot server",
	Long: `Check connectivity to the PowerHA Copilot server by verifying:
  • The server answers its liveness endpoint
  • The server reports a version
  • Stored credentials, if any, are accepted

This command is useful for debugging connectivity and credential issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Println(sectionStyle.Render("PowerHA Copilot Health Check"))
		fmt.Println()
		fmt.Printf("Server: %s\n\n", serverStyle.Render(cfg.APIURL))

		// Step 1: liveness
		fmt.Println(infoStyle.Render("Step 1: Checking server liveness..."))
		if _, err := client.HealthCheck(ctx); err != nil {
			fmt.Println(errorStyle.Render("✗ Server is not reachable:"), err)
			return fmt.Errorf("health check failed")
		}
		fmt.Println(successStyle.Render("✓ Server is alive"))
		fmt.Println()

		// Step 2: version
		fmt.Println(infoStyle.Render("Step 2: Reading server version..."))
		versionDoc, err := client.GetVersion(ctx)
		if err != nil {
			fmt.Println(warningStyle.Render("⚠ Could not read server version:"), err)
		} else if v, ok := versionDoc["version"].(string); ok {
			fmt.Println(successStyle.Render("✓ Server version: " + v))
		} else {
			fmt.Println(successStyle.Render("✓ Version endpoint answered"))
		}
		fmt.Println()

		// Step 3: credentials
		fmt.Println(infoStyle.Render("Step 3: Validating stored credentials..."))
		user, err := client.Whoami(ctx)
		if err != nil {
			fmt.Println(warningStyle.Render("⚠ Not authenticated:"), err)
			fmt.Println("  Run " + labelStyle.Render("powerha-copilot login") + " to authenticate.")
		} else {
			fmt.Println(successStyle.Render("✓ Authenticated as " + user.Username))
		}

		fmt.Println()
		fmt.Println(successStyle.Render("✓ Health check passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
