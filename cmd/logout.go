package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
)

var logoutYes bool

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	Long: `Log out and clear stored credentials.

The server is asked to invalidate the session, but local credentials are
cleared even if that call fails or the server is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		store := internal.NewKeyringStore()
		if !internal.IsAuthenticated(store) {
			fmt.Println(warningStyle.Render("Not logged in."))
			return nil
		}

		if !logoutYes {
			answer := readLine("Are you sure you want to log out? [y/N] ")
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				return nil
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := client.Logout(ctx); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		fmt.Println(successStyle.Render("✓") + " Logged out successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Skip the confirmation prompt")
}
