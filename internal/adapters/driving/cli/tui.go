package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/campusquery/campusquery-cli/internal/adapters/driving/tui"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for CampusQuery.

The TUI shows the conversation transcript with keyboard-driven
candidate confirmation.

Controls:
  Enter    - Send the typed line
  N        - Type a bare number to confirm candidate N while the prompt is open
  no       - Reject the current candidates
  search   - Retry with a broader web search
  Ctrl+R   - Reset the session
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

var tuiSession string
var tuiResume bool

func init() {
	tuiCmd.Flags().StringVarP(&tuiSession, "session", "s", "", "session name to persist under")
	tuiCmd.Flags().BoolVar(&tuiResume, "resume", false, "resume a previously saved session")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Conversation: conversationService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	sessionName := tuiSession
	if sessionName == "" && configStore != nil {
		sessionName = configStore.GetString(driven.ConfigKeySessionName)
	}
	if sessionName == "" {
		sessionName = "default"
	}
	if namer, ok := conversationService.(sessionNamer); ok {
		namer.SetSessionName(sessionName)
	}
	if tuiResume {
		app.WithRestore(sessionName)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
