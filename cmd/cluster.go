package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
)

var (
	clusterListFormat string
	failoverNode      string
	failoverForce     bool
	failoverYes       bool
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mixedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// clusterCmd groups cluster management commands
var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster management commands",
}

var clusterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all PowerHA clusters",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		clusters, err := client.ListClusters(ctx)
		if err != nil {
			return err
		}

		if clusterListFormat == "json" {
			return printJSON(clusters)
		}
		if len(clusters) == 0 {
			fmt.Println(warningStyle.Render("No clusters found."))
			return nil
		}
		renderClusterTable(clusters)
		return nil
	},
}

var clusterShowCmd = &cobra.Command{
	Use:   "show <cluster-id>",
	Short: "Show detailed information about a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		detail, err := client.GetCluster(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(detail)
	},
}

var clusterStatusCmd = &cobra.Command{
	Use:   "status <cluster-id>",
	Short: "Get current status of a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		status, err := client.GetClusterStatus(ctx, args[0])
		if err != nil {
			return err
		}

		name := status.Name
		if name == "" {
			name = args[0]
		}
		fmt.Println(panelStyle.Render(
			titleStyle.Render(name) + "\nStatus: " + renderStatus(status.Status)))

		if len(status.Nodes) > 0 {
			fmt.Println()
			renderNodeTable(status.Nodes)
		}
		if len(status.ResourceGroups) > 0 {
			fmt.Printf("\n%s %s\n", labelStyle.Render("Resource Groups:"), strings.Join(status.ResourceGroups, ", "))
		}
		return nil
	},
}

var clusterHealthCmd = &cobra.Command{
	Use:   "health <cluster-id>",
	Short: "Check health of a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		health, err := client.GetClusterHealth(ctx, args[0])
		if err != nil {
			return err
		}

		scoreStyle := onlineStyle
		if health.HealthScore < 50 {
			scoreStyle = offlineStyle
		} else if health.HealthScore < 80 {
			scoreStyle = mixedStyle
		}
		fmt.Println(panelStyle.Render(fmt.Sprintf(
			"Health Score: %s\nStatus: %s",
			scoreStyle.Render(fmt.Sprintf("%d/100", health.HealthScore)),
			health.HealthStatus)))

		if len(health.Issues) > 0 {
			fmt.Println("\n" + errorStyle.Render("Issues:"))
			for _, issue := range health.Issues {
				fmt.Printf("  • %s\n", issue)
			}
		}
		if len(health.Recommendations) > 0 {
			fmt.Println("\n" + warningStyle.Render("Recommendations:"))
			for _, rec := range health.Recommendations {
				fmt.Printf("  → %s\n", rec)
			}
		}
		return nil
	},
}

var clusterNodesCmd = &cobra.Command{
	Use:   "nodes <cluster-id>",
	Short: "List nodes in a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		nodes, err := client.GetClusterNodes(ctx, args[0])
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			fmt.Println(warningStyle.Render("No nodes found."))
			return nil
		}
		renderNodeTable(nodes)
		return nil
	},
}

var clusterRGListCmd = &cobra.Command{
	Use:   "resource-groups <cluster-id>",
	Short: "List resource groups in a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		groups, err := client.GetResourceGroups(ctx, args[0])
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println(warningStyle.Render("No resource groups found."))
			return nil
		}

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, titleStyle.Render("Name")+"\t"+titleStyle.Render("State")+"\t"+titleStyle.Render("Node")+"\t")
		for _, rg := range groups {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", rg.Name, renderStatus(rg.State), rg.Node)
		}
		return w.Flush()
	},
}

var clusterFailoverCmd = &cobra.Command{
	Use:   "failover <cluster-id>",
	Short: "Initiate a failover",
	Long: `Initiate a failover on a cluster.

The server decides whether a non-forced failover is safe; --force overrides
its safety checks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !failoverYes {
			target := "the standby node"
			if failoverNode != "" {
				target = failoverNode
			}
			answer := readLine(fmt.Sprintf("Fail over cluster %s to %s? [y/N] ", args[0], target))
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				return nil
			}
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := client.PerformFailover(ctx, args[0], failoverNode, failoverForce)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓") + " Failover requested.")
		return printJSON(result)
	},
}

var clusterRGActionCmd = &cobra.Command{
	Use:   "rg <cluster-id> <resource-group> <action>",
	Short: "Run an action (start, stop, move) on a resource group",
	Long: `Run an action on a resource group.

The action is passed to the server verbatim; the server decides which
actions are valid for the group's current state.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := client.ManageResourceGroup(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %s requested.\n", successStyle.Render("✓"), args[1], args[2])
		return printJSON(result)
	},
}

func renderClusterTable(clusters []internal.Cluster) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d cluster(s)", len(clusters))))
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Nodes")+"\t"+titleStyle.Render("Resource Groups")+"\t")
	for _, c := range clusters {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(c.ID),
			c.Name,
			renderStatus(c.Status),
			countStyle.Render(strconv.Itoa(c.NodeCount)),
			countStyle.Render(strconv.Itoa(c.ResourceGroups)),
		)
	}
	_ = w.Flush()
}

func renderNodeTable(nodes []internal.Node) {
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, titleStyle.Render("Name")+"\t"+titleStyle.Render("Hostname")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Primary")+"\t"+titleStyle.Render("CPU %")+"\t"+titleStyle.Render("Memory %")+"\t")
	for _, n := range nodes {
		primary := ""
		if n.IsPrimary {
			primary = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%.1f\t\n",
			n.Name, n.Hostname, renderStatus(n.Status), primary, n.CPUUsage, n.MemoryUsage)
	}
	_ = w.Flush()
}

// renderStatus colors a status word by its general meaning
func renderStatus(status string) string {
	switch strings.ToLower(status) {
	case "online", "active", "healthy", "ok":
		return onlineStyle.Render(status)
	case "offline", "failed", "error":
		return offlineStyle.Render(status)
	case "":
		return idStyle.Render("unknown")
	default:
		return mixedStyle.Render(status)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.AddCommand(clusterListCmd)
	clusterCmd.AddCommand(clusterShowCmd)
	clusterCmd.AddCommand(clusterStatusCmd)
	clusterCmd.AddCommand(clusterHealthCmd)
	clusterCmd.AddCommand(clusterNodesCmd)
	clusterCmd.AddCommand(clusterRGListCmd)
	clusterCmd.AddCommand(clusterFailoverCmd)
	clusterCmd.AddCommand(clusterRGActionCmd)

	clusterListCmd.Flags().StringVar(&clusterListFormat, "format", "table", "Output format (table, json)")
	clusterFailoverCmd.Flags().StringVar(&failoverNode, "node", "", "Target node for the failover")
	clusterFailoverCmd.Flags().BoolVar(&failoverForce, "force", false, "Force failover even if the server considers it risky")
	clusterFailoverCmd.Flags().BoolVarP(&failoverYes, "yes", "y", false, "Skip the confirmation prompt")
}
