package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
	"golang.org/x/term"
)

var (
	loginAPIKey   string
	loginURL      string
	loginPassword bool
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 2)

	promptStyle = lipgloss.NewStyle().
			Bold(true)

	serverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the PowerHA Copilot server",
	Long: `Authenticate with the PowerHA Copilot server.

By default an API key is requested (get one from your PowerHA Copilot
administrator). With --password, a username/password login is performed and
the server issues a fresh API key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if loginURL != "" {
			cfg.APIURL = loginURL
			if err := cfg.Save(); err != nil {
				return err
			}
		}

		fmt.Println(panelStyle.Render("PowerHA Copilot Login"))
		fmt.Printf("\nServer: %s\n", serverStyle.Render(cfg.APIURL))

		client := internal.NewClient(cfg, internal.NewKeyringStore())
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var user *internal.User
		if loginPassword {
			user, err = passwordLogin(ctx, client)
		} else {
			user, err = apiKeyLogin(ctx, client)
		}
		if err != nil {
			if !loginPassword {
				fmt.Println(dimStyle.Render("A failed key stays stored; run 'powerha-copilot logout' to clear it."))
			}
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("\n%s Logged in as %s\n", successStyle.Render("✓"), promptStyle.Render(user.Username))
		if user.Organization != "" {
			fmt.Printf("  Organization: %s\n", user.Organization)
		}
		return nil
	},
}

func apiKeyLogin(ctx context.Context, client *internal.Client) (*internal.User, error) {
	apiKey := loginAPIKey
	if apiKey == "" {
		fmt.Println("\nGet your API key from your PowerHA Copilot administrator.")
		apiKey = readSecret("API Key: ")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key provided")
	}
	return client.LoginWithAPIKey(ctx, apiKey)
}

func passwordLogin(ctx context.Context, client *internal.Client) (*internal.User, error) {
	fmt.Println()
	username := readLine("Username: ")
	if username == "" {
		return nil, fmt.Errorf("no username provided")
	}
	password := readSecret("Password: ")
	if password == "" {
		return nil, fmt.Errorf("no password provided")
	}
	return client.Login(ctx, username, password)
}

func readLine(prompt string) string {
	fmt.Print(promptStyle.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// readSecret reads without echo when stdin is a terminal, falling back to
// plain reads for piped input (scripts, tests)
func readSecret(prompt string) string {
	fmt.Print(promptStyle.Render(prompt))
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(secret))
	}
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "API key (or enter interactively)")
	loginCmd.Flags().StringVar(&loginURL, "url", "", "API server URL to save before logging in")
	loginCmd.Flags().BoolVar(&loginPassword, "password", false, "Log in with username and password instead of an API key")
}
