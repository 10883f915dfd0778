package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
)

var (
	historyLimit   int
	historyOffset  int
	historyCluster string
	localLimit     int
)

// historyCmd groups audit/history commands
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Conversation and operation history",
}

var historyConversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List past conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		conversations, err := client.GetConversationHistory(ctx, historyLimit, historyOffset)
		if err != nil {
			return err
		}
		if len(conversations) == 0 {
			fmt.Println(warningStyle.Render("No conversations found."))
			return nil
		}

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Created")+"\t")
		for _, c := range conversations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				idStyle.Render(c.ID), c.Title,
				countStyle.Render(strconv.Itoa(c.MessageCount)), c.CreatedAt)
		}
		return w.Flush()
	},
}

var historyOperationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List past cluster operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		operations, err := client.GetOperationHistory(ctx, historyCluster, historyLimit)
		if err != nil {
			return err
		}
		if len(operations) == 0 {
			fmt.Println(warningStyle.Render("No operations found."))
			return nil
		}

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Cluster")+"\t"+titleStyle.Render("Type")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Created")+"\t")
		for _, op := range operations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				idStyle.Render(op.ID), op.ClusterID, op.Type, renderStatus(op.Status), op.CreatedAt)
		}
		return w.Flush()
	},
}

var historyLocalCmd = &cobra.Command{
	Use:   "local",
	Short: "Show the local chat transcript",
	Long: `Show chat turns recorded locally by this terminal.

The transcript is a client-side record; the server keeps the authoritative
conversation history (see 'history conversations').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := internal.ConfigDir()
		if err != nil {
			return err
		}
		store, err := internal.OpenTranscript(filepath.Join(dir, "history.db"))
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(localLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(warningStyle.Render("Transcript is empty."))
			return nil
		}
		for _, entry := range entries {
			prefix := userStyle.Render("You")
			if entry.Role == "assistant" {
				prefix = copilotStyle.Render("Copilot")
			}
			fmt.Printf("%s %s: %s\n", idStyle.Render(entry.CreatedAt), prefix, entry.Content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyConversationsCmd)
	historyCmd.AddCommand(historyOperationsCmd)
	historyCmd.AddCommand(historyLocalCmd)

	historyConversationsCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to fetch")
	historyConversationsCmd.Flags().IntVar(&historyOffset, "offset", 0, "Offset into the history")
	historyOperationsCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to fetch")
	historyOperationsCmd.Flags().StringVar(&historyCluster, "cluster", "", "Filter by cluster id")
	historyLocalCmd.Flags().IntVar(&localLimit, "limit", 20, "Maximum entries to show")
}
