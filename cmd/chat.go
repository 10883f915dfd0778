package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/ziemacs/powerha-copilot-cli/internal"
)

var chatNoStream bool

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	copilotStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the PowerHA Copilot",
	Long: `Chat with the PowerHA Copilot.

With a message argument, sends a single message and prints the response.
Without arguments, starts an interactive session. In interactive mode,
slash commands are available:

  /help      Show available commands
  /clear     Clear the screen
  /clusters  List clusters
  /status    Show connection status
  /new       Start a new conversation
  /history   Show recent local transcript entries
  /exit      Exit chat`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return runOneShotChat(strings.Join(args, " "), chatNoStream)
		}
		return runInteractiveChat(chatNoStream)
	},
}

// chatSession holds per-session REPL state. The conversation id lives here,
// on the caller side; the API client itself is stateless across turns.
type chatSession struct {
	client         *internal.Client
	cfg            *internal.Config
	conversationID string
	streaming      bool
	transcript     *internal.TranscriptStore
	out            io.Writer
}

func runOneShotChat(message string, noStream bool) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := &chatSession{
		client:    client,
		cfg:       cfg,
		streaming: cfg.Streaming && !noStream,
		out:       os.Stdout,
	}
	return session.sendTurn(ctx, message)
}

func runInteractiveChat(noStream bool) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Println(panelStyle.Render(
		"PowerHA Copilot\n" +
			"AI-powered IBM PowerHA cluster management\n\n" +
			dimStyle.Render("Type your questions or commands. Type 'exit' to quit.")))

	store := internal.NewKeyringStore()
	if !internal.IsAuthenticated(store) {
		fmt.Println()
		fmt.Println(warningStyle.Render("⚠ Not authenticated.") + " Some features may be limited.")
		fmt.Println("  Run " + labelStyle.Render("powerha-copilot login") + " for full access.")
	}

	session := &chatSession{
		client:    client,
		cfg:       cfg,
		streaming: cfg.Streaming && !noStream,
		out:       os.Stdout,
	}
	session.openTranscript()
	defer session.closeTranscript()

	// SIGINT cancels the in-flight request when there is one; at the prompt
	// it just prints a hint and keeps the loop alive.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	var inFlight atomic.Bool
	var cancelCurrent atomic.Value // context.CancelFunc
	go func() {
		for range sigCh {
			if inFlight.Load() {
				if cancel, ok := cancelCurrent.Load().(context.CancelFunc); ok {
					cancel()
				}
			} else {
				fmt.Println("\n" + dimStyle.Render("Use 'exit' to quit."))
			}
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println()
		fmt.Print(userStyle.Render("You") + "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit", "bye", "q":
			fmt.Println(dimStyle.Render("Goodbye!"))
			return nil
		}
		if strings.HasPrefix(line, "/") {
			if session.handleSlashCommand(line) {
				return nil
			}
			continue
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancelCurrent.Store(cancel)
		inFlight.Store(true)
		err := session.sendTurn(ctx, line)
		inFlight.Store(false)
		cancel()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println("\n" + dimStyle.Render("Interrupted."))
				continue
			}
			fmt.Println(errorStyle.Render("Error:") + " " + err.Error())
		}
	}
	return scanner.Err()
}

// sendTurn sends one message and renders the reply, streaming when enabled
func (s *chatSession) sendTurn(ctx context.Context, message string) error {
	s.record("user", message)

	if s.streaming {
		stream, err := s.client.ChatStream(ctx, message, s.conversationID)
		if err != nil {
			return err
		}
		defer stream.Close()

		fmt.Fprint(s.out, copilotStyle.Render("Copilot")+": ")
		var full strings.Builder
		for {
			fragment, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				fmt.Fprintln(s.out)
				return err
			}
			fmt.Fprint(s.out, fragment)
			full.WriteString(fragment)
		}
		fmt.Fprintln(s.out)
		s.record("assistant", full.String())
		return nil
	}

	resp, err := s.client.Chat(ctx, message, s.conversationID)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, copilotStyle.Render("Copilot")+": "+resp.Text())

	// Carry the server-assigned conversation id into the next turn
	if resp.ConversationID != "" {
		s.conversationID = resp.ConversationID
	}
	for _, action := range resp.Actions {
		fmt.Fprintln(s.out, actionStyle.Render("  → "+action))
	}
	s.record("assistant", resp.Text())
	return nil
}

// handleSlashCommand runs a local command; returns true to exit the session
func (s *chatSession) handleSlashCommand(line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case "/help":
		fmt.Println(panelStyle.Render(
			"Available Commands:\n\n" +
				"/help      Show this help\n" +
				"/clear     Clear screen\n" +
				"/clusters  List clusters\n" +
				"/status    Show connection status\n" +
				"/new       Start a new conversation\n" +
				"/history   Show recent local transcript\n" +
				"/exit      Exit chat"))
	case "/clear":
		fmt.Print("\033[2J\033[H")
	case "/clusters":
		s.showClusters()
	case "/status":
		s.showStatus()
	case "/new":
		s.conversationID = ""
		fmt.Println(dimStyle.Render("Started a new conversation."))
	case "/history":
		s.showTranscript()
	case "/exit", "/quit":
		fmt.Println(dimStyle.Render("Goodbye!"))
		return true
	default:
		fmt.Println(warningStyle.Render("Unknown command: " + line + " (try /help)"))
	}
	return false
}

func (s *chatSession) showClusters() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout())
	defer cancel()

	clusters, err := s.client.ListClusters(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render("Error:") + " " + err.Error())
		return
	}
	if len(clusters) == 0 {
		fmt.Println(warningStyle.Render("No clusters found."))
		return
	}
	renderClusterTable(clusters)
}

func (s *chatSession) showStatus() {
	fmt.Printf("Server: %s\n", serverStyle.Render(s.cfg.APIURL))
	if internal.IsAuthenticated(internal.NewKeyringStore()) {
		fmt.Println("Authenticated: " + successStyle.Render("Yes"))
	} else {
		fmt.Println("Authenticated: " + errorStyle.Render("No"))
	}
	if s.cfg.Username != "" {
		fmt.Printf("User: %s\n", s.cfg.Username)
	}
	if s.conversationID != "" {
		fmt.Printf("Conversation: %s\n", dimStyle.Render(s.conversationID))
	}
}

func (s *chatSession) showTranscript() {
	if s.transcript == nil {
		fmt.Println(warningStyle.Render("Local transcript unavailable."))
		return
	}
	entries, err := s.transcript.Recent(10)
	if err != nil {
		fmt.Println(errorStyle.Render("Error:") + " " + err.Error())
		return
	}
	if len(entries) == 0 {
		fmt.Println(dimStyle.Render("Transcript is empty."))
		return
	}
	for _, entry := range entries {
		prefix := userStyle.Render("You")
		if entry.Role == "assistant" {
			prefix = copilotStyle.Render("Copilot")
		}
		fmt.Printf("%s: %s\n", prefix, entry.Content)
	}
}

// openTranscript is best effort: a broken local database never blocks chat
func (s *chatSession) openTranscript() {
	dir, err := internal.ConfigDir()
	if err != nil {
		internal.LogDebug("transcript disabled: %v", err)
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		internal.LogWarn("transcript disabled: %v", err)
		return
	}
	store, err := internal.OpenTranscript(filepath.Join(dir, "history.db"))
	if err != nil {
		internal.LogWarn("transcript disabled: %v", err)
		return
	}
	s.transcript = store
}

func (s *chatSession) closeTranscript() {
	if s.transcript != nil {
		s.transcript.Close()
	}
}

func (s *chatSession) record(role, content string) {
	if s.transcript == nil || content == "" {
		return
	}
	if err := s.transcript.Append(s.conversationID, role, content); err != nil {
		internal.LogDebug("transcript append failed: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatNoStream, "no-stream", false, "Disable streaming responses")
}
