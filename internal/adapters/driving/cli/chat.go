package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
)

var chatSession string
var chatResume bool

// sessionNamer is implemented by conversation controllers that persist
// under a named key.
type sessionNamer interface {
	SetSessionName(name string)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the college assistant.

Type a college name to look it up, then confirm the matching website.
Once confirmed, every line you type is answered from the college's
indexed pages.

Commands:
  /confirm N  confirm candidate number N from the last batch
  /no         reject the current candidates and try another name
  /search     retry the pending name with a broader web search
  /reset      clear the session and start over
  /quit       exit the chat`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session name to persist under")
	chatCmd.Flags().BoolVar(&chatResume, "resume", false, "resume a previously saved session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sessionName := chatSession
	if sessionName == "" && configStore != nil {
		sessionName = configStore.GetString(driven.ConfigKeySessionName)
	}
	if sessionName == "" {
		sessionName = "default"
	}
	if namer, ok := conversationService.(sessionNamer); ok {
		namer.SetSessionName(sessionName)
	}

	if chatResume {
		if err := conversationService.RestoreSession(ctx, sessionName); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				cmd.Printf("No saved session named %q, starting fresh.\n", sessionName)
			} else {
				return fmt.Errorf("restoring session: %w", err)
			}
		}
	}

	cmd.Println("Welcome to CampusQuery! Which college would you like to ask about?")
	cmd.Println("Type /help for commands, /quit to exit.")
	cmd.Println()

	// Replay any restored transcript so the user sees where they were.
	rendered := renderSnapshot(cmd, conversationService.Snapshot(), 0)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := dispatchChatCommand(ctx, cmd, line); quit {
				break
			}
		} else {
			conversationService.SubmitUtterance(ctx, line)
		}

		rendered = renderSnapshot(cmd, conversationService.Snapshot(), rendered)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// dispatchChatCommand handles a /-prefixed chat command. Returns true when
// the user asked to quit.
func dispatchChatCommand(ctx context.Context, cmd *cobra.Command, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/help":
		cmd.Println(cmd.Long)

	case "/reset":
		conversationService.ResetSession()
		cmd.Println("Session cleared. Which college would you like to ask about?")

	case "/no":
		conversationService.RejectCandidates()

	case "/search":
		conversationService.RequestBroaderSearch(ctx)

	case "/confirm":
		if len(fields) != 2 {
			cmd.Println("Usage: /confirm N")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		snapshot := conversationService.Snapshot()
		if err != nil || n < 1 || n > len(snapshot.Candidates) {
			cmd.Printf("Pick a number between 1 and %d.\n", len(snapshot.Candidates))
			return false
		}
		conversationService.ConfirmCandidate(ctx, snapshot.Candidates[n-1])

	default:
		cmd.Printf("Unknown command %s. Type /help for commands.\n", fields[0])
	}
	return false
}

// renderSnapshot prints turns not yet shown and the open candidate prompt.
// Returns the new count of rendered turns.
func renderSnapshot(cmd *cobra.Command, snapshot domain.ConversationSnapshot, rendered int) int {
	// A reset shrinks the turn log below what was already shown.
	if rendered > len(snapshot.Turns) {
		rendered = 0
	}
	for _, turn := range snapshot.Turns[rendered:] {
		if turn.IsUser() {
			// The user already sees their own input line.
			continue
		}
		cmd.Printf("campusquery: %s\n", turn.Content)
		if turn.Source != nil {
			cmd.Printf("  source: %s (%s)\n", turn.Source.Label, turn.Source.Locator)
		}
		for _, ref := range turn.Evidence {
			cmd.Printf("  [%s] %s\n", ref.Label, ref.Locator)
		}
	}

	if snapshot.PromptOpen {
		for i, c := range snapshot.Candidates {
			cmd.Printf("  [%d] %s - %s (%s confidence)\n", i+1, c.Name, c.URL, c.Confidence)
		}
		cmd.Println("Confirm with /confirm N, reject with /no, or /search for a broader search.")
	}

	return len(snapshot.Turns)
}
