package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
)

var labelStyle = lipgloss.NewStyle().Bold(true)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current user information",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := internal.NewKeyringStore()
		if !internal.IsAuthenticated(store) {
			fmt.Println(warningStyle.Render("Not logged in. Run 'powerha-copilot login' first."))
			return nil
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		user, err := client.Whoami(ctx)
		if err != nil {
			return err
		}

		fmt.Println(sectionStyle.Render("Current User"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Username"), valueOrDash(user.Username))
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Email"), valueOrDash(user.Email))
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Organization"), valueOrDash(user.Organization))
		fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Role"), valueOrDash(user.Role))
		return w.Flush()
	},
}

func valueOrDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
