package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusquery/campusquery-cli/internal/adapters/driving/tui/messages"
	"github.com/campusquery/campusquery-cli/internal/adapters/driving/tui/styles"
	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// input is the single-line text entry at the bottom.
	input textinput.Model

	// transcript scrolls the conversation history.
	transcript viewport.Model

	// spinner is shown while a command is in flight.
	spinner spinner.Model

	// snapshot is the last observed conversation state.
	snapshot domain.ConversationSnapshot

	// restoreSession names a persisted session to restore on start.
	restoreSession string

	// busy is true while a dispatched command has not completed.
	busy bool

	// err holds the last adapter-level error (restore failures).
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its dimensions.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Type a college name..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		input:    input,
		spinner:  sp,
		snapshot: ports.Conversation.Snapshot(),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// WithRestore restores the named persisted session when the app starts.
func (a *App) WithRestore(sessionName string) *App {
	a.restoreSession = sessionName
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		tea.SetWindowTitle("campusquery"),
	}
	if a.restoreSession != "" {
		cmds = append(cmds, a.restore(a.restoreSession))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if !a.ready {
			a.transcript = viewport.New(msg.Width, a.transcriptHeight())
			a.ready = true
		} else {
			a.transcript.Width = msg.Width
			a.transcript.Height = a.transcriptHeight()
		}
		a.input.Width = msg.Width - 4
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.CommandCompleted:
		a.busy = false
		a.snapshot = msg.Snapshot
		a.refreshTranscript()
		a.transcript.GotoBottom()
		return a, nil

	case messages.SessionRestored:
		a.err = nil
		a.snapshot = msg.Snapshot
		a.refreshTranscript()
		a.transcript.GotoBottom()
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "ctrl+r":
		a.ports.Conversation.ResetSession()
		a.snapshot = a.ports.Conversation.Snapshot()
		a.err = nil
		a.refreshTranscript()
		return a, nil

	case "enter":
		return a, a.dispatch()
	}

	if msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// dispatch interprets the typed line and issues the matching conversation
// command. While the confirmation prompt is open, a bare number confirms
// that candidate, "no" rejects the batch and "search" broadens the search;
// everything else is submitted as an utterance.
func (a *App) dispatch() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" || a.busy {
		return nil
	}
	a.input.SetValue("")

	snapshot := a.snapshot
	run := func() { a.ports.Conversation.SubmitUtterance(a.ctx, text) }

	if snapshot.PromptOpen {
		switch strings.ToLower(text) {
		case "no", "n":
			run = func() { a.ports.Conversation.RejectCandidates() }
		case "search", "s":
			run = func() { a.ports.Conversation.RequestBroaderSearch(a.ctx) }
		default:
			if n, err := strconv.Atoi(text); err == nil {
				if n < 1 || n > len(snapshot.Candidates) {
					a.err = fmt.Errorf("pick a number between 1 and %d", len(snapshot.Candidates))
					return nil
				}
				candidate := snapshot.Candidates[n-1]
				run = func() { a.ports.Conversation.ConfirmCandidate(a.ctx, candidate) }
			}
		}
	}

	a.busy = true
	a.err = nil
	return tea.Batch(a.command(run), a.spinner.Tick)
}

// command runs a conversation command and reports the resulting snapshot.
func (a *App) command(run func()) tea.Cmd {
	return func() tea.Msg {
		run()
		return messages.CommandCompleted{Snapshot: a.ports.Conversation.Snapshot()}
	}
}

// restore rebinds a persisted session in the background.
func (a *App) restore(name string) tea.Cmd {
	return func() tea.Msg {
		if err := a.ports.Conversation.RestoreSession(a.ctx, name); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.SessionRestored{Snapshot: a.ports.Conversation.Snapshot()}
	}
}

// refreshTranscript re-renders the conversation into the viewport.
func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}
	a.transcript.SetContent(a.renderTranscript())
}

// renderTranscript formats the snapshot's turns and, when open, the
// candidate confirmation prompt.
func (a *App) renderTranscript() string {
	var b strings.Builder

	for _, turn := range a.snapshot.Turns {
		if turn.IsUser() {
			b.WriteString(a.styles.User.Render("you: " + turn.Content))
		} else {
			b.WriteString(a.styles.Assistant.Render("campusquery: " + turn.Content))
			if turn.Source != nil {
				b.WriteString("\n" + a.styles.Muted.Render(
					fmt.Sprintf("  source: %s (%s)", turn.Source.Label, turn.Source.Locator)))
			}
			for _, ref := range turn.Evidence {
				b.WriteString("\n" + a.styles.Muted.Render(
					fmt.Sprintf("  [%s] %s", ref.Label, ref.Locator)))
			}
		}
		b.WriteString("\n")
	}

	if a.snapshot.PromptOpen {
		b.WriteString("\n")
		for i, c := range a.snapshot.Candidates {
			tag := a.styles.Selected.Render(fmt.Sprintf("[%d]", i+1))
			line := fmt.Sprintf("%s - %s (%s confidence)", c.Name, c.URL, c.Confidence)
			b.WriteString("  " + tag + " " + a.styles.Assistant.Render(line) + "\n")
		}
		b.WriteString(a.styles.Muted.Render("Type a number to confirm, \"no\" to reject, \"search\" to broaden.") + "\n")
	}

	return b.String()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)

	header := a.styles.Title.Render("CampusQuery")
	if a.snapshot.Bound() {
		header += "  " + a.styles.Success.Render(a.snapshot.College.Name)
	}
	sections = append(sections, header, "")

	sections = append(sections, a.transcript.View())

	status := a.styles.Help.Render("enter send | ctrl+r reset | ctrl+c quit")
	if a.busy {
		status = a.spinner.View() + " " + a.styles.Muted.Render("thinking...")
	}
	if a.err != nil {
		status = a.styles.Error.Render("Error: " + a.err.Error())
	}
	sections = append(sections, status)

	sections = append(sections, a.styles.InputField.Render(a.input.View()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// transcriptHeight reserves lines for the header, status and input rows.
func (a *App) transcriptHeight() int {
	h := a.height - 7
	if h < 3 {
		h = 3
	}
	return h
}

// Snapshot returns the last observed conversation state (for testing).
func (a *App) Snapshot() domain.ConversationSnapshot {
	return a.snapshot
}

// Busy returns whether a command is in flight (for testing).
func (a *App) Busy() bool {
	return a.busy
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Err returns the last adapter-level error.
func (a *App) Err() error {
	return a.err
}
