package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusquery/campusquery-cli/internal/adapters/driving/tui/messages"
	"github.com/campusquery/campusquery-cli/internal/core/domain"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driving"
)

type stubConversation struct {
	snapshot   domain.ConversationSnapshot
	submitted  []string
	confirmed  []domain.Candidate
	rejected   int
	broadened  int
	resets     int
	restored   []string
	restoreErr error
}

var _ driving.Conversation = (*stubConversation)(nil)

func (s *stubConversation) SubmitUtterance(_ context.Context, text string) {
	s.submitted = append(s.submitted, text)
}

func (s *stubConversation) ConfirmCandidate(_ context.Context, candidate domain.Candidate) {
	s.confirmed = append(s.confirmed, candidate)
}

func (s *stubConversation) RejectCandidates() { s.rejected++ }

func (s *stubConversation) RequestBroaderSearch(_ context.Context) { s.broadened++ }

func (s *stubConversation) ResetSession() { s.resets++ }

func (s *stubConversation) RestoreSession(_ context.Context, name string) error {
	s.restored = append(s.restored, name)
	return s.restoreErr
}

func (s *stubConversation) Snapshot() domain.ConversationSnapshot { return s.snapshot }

func newTestApp(t *testing.T, stub *stubConversation) *App {
	t.Helper()
	app, err := NewApp(&Ports{Conversation: stub})
	require.NoError(t, err)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(*App)
}

// drive sends an enter keypress and applies the resulting command message.
func drive(t *testing.T, app *App, typed string) *App {
	t.Helper()
	app.input.SetValue(typed)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	if cmd == nil {
		return app
	}

	// Execute the batch and feed any completion message back in.
	for _, msg := range collectMsgs(cmd()) {
		if completed, ok := msg.(messages.CommandCompleted); ok {
			model, _ = app.Update(completed)
			app = model.(*App)
		}
	}
	return app
}

// collectMsgs flattens a possibly batched command result into messages.
func collectMsgs(msg tea.Msg) []tea.Msg {
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, cmd := range batch {
		if cmd != nil {
			out = append(out, collectMsgs(cmd())...)
		}
	}
	return out
}

func TestNewApp_RequiresConversation(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingConversation)
}

func TestApp_NotReadyBeforeWindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Conversation: &stubConversation{}})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_SubmitsTypedUtterance(t *testing.T) {
	stub := &stubConversation{}
	app := newTestApp(t, stub)

	app = drive(t, app, "IIT Bombay")

	assert.Equal(t, []string{"IIT Bombay"}, stub.submitted)
	assert.False(t, app.Busy())
	assert.Empty(t, app.input.Value())
}

func TestApp_EmptyInputIsNoOp(t *testing.T) {
	stub := &stubConversation{}
	app := newTestApp(t, stub)

	app = drive(t, app, "   ")

	assert.Empty(t, stub.submitted)
	assert.False(t, app.Busy())
}

func TestApp_NumberConfirmsCandidateWhilePromptOpen(t *testing.T) {
	candidate := domain.Candidate{Name: "IIT Bombay", URL: "https://www.iitb.ac.in", Confidence: domain.ConfidenceHigh}
	stub := &stubConversation{
		snapshot: domain.ConversationSnapshot{
			Candidates: []domain.Candidate{candidate},
			PromptOpen: true,
		},
	}
	app := newTestApp(t, stub)

	app = drive(t, app, "1")

	require.Len(t, stub.confirmed, 1)
	assert.Equal(t, candidate, stub.confirmed[0])
	assert.Empty(t, stub.submitted)
}

func TestApp_OutOfRangeNumberIsRejectedLocally(t *testing.T) {
	stub := &stubConversation{
		snapshot: domain.ConversationSnapshot{
			Candidates: []domain.Candidate{{Name: "X", URL: "https://x.edu"}},
			PromptOpen: true,
		},
	}
	app := newTestApp(t, stub)

	app = drive(t, app, "7")

	assert.Empty(t, stub.confirmed)
	assert.Error(t, app.Err())
}

func TestApp_NoAndSearchWhilePromptOpen(t *testing.T) {
	stub := &stubConversation{
		snapshot: domain.ConversationSnapshot{
			Candidates: []domain.Candidate{{Name: "X", URL: "https://x.edu"}},
			PromptOpen: true,
		},
	}
	app := newTestApp(t, stub)

	app = drive(t, app, "no")
	app = drive(t, app, "search")

	assert.Equal(t, 1, stub.rejected)
	assert.Equal(t, 1, stub.broadened)
	assert.Empty(t, stub.submitted)
}

func TestApp_NumberIsUtteranceWhenNoPromptOpen(t *testing.T) {
	stub := &stubConversation{}
	app := newTestApp(t, stub)

	drive(t, app, "42")

	assert.Equal(t, []string{"42"}, stub.submitted)
	assert.Empty(t, stub.confirmed)
}

func TestApp_CtrlRResetsSession(t *testing.T) {
	stub := &stubConversation{}
	app := newTestApp(t, stub)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	app = model.(*App)

	assert.Equal(t, 1, stub.resets)
	assert.False(t, app.Busy())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, &stubConversation{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_RestoreOnInit(t *testing.T) {
	stub := &stubConversation{
		snapshot: domain.ConversationSnapshot{
			College: &domain.College{ID: "42", Name: "IIT Bombay"},
		},
	}
	app := newTestApp(t, stub)
	app.WithRestore("campus")

	for _, msg := range collectMsgs(tea.Batch(app.Init())()) {
		if restored, ok := msg.(messages.SessionRestored); ok {
			model, _ := app.Update(restored)
			app = model.(*App)
		}
	}

	assert.Equal(t, []string{"campus"}, stub.restored)
	assert.True(t, app.Snapshot().Bound())
}

func TestApp_RestoreFailureSurfacesError(t *testing.T) {
	stub := &stubConversation{restoreErr: errors.New("store offline")}
	app := newTestApp(t, stub)
	app.WithRestore("campus")

	for _, msg := range collectMsgs(tea.Batch(app.Init())()) {
		if failed, ok := msg.(messages.ErrorOccurred); ok {
			model, _ := app.Update(failed)
			app = model.(*App)
		}
	}

	assert.Equal(t, []string{"campus"}, stub.restored)
	assert.EqualError(t, app.Err(), "store offline")
	assert.Contains(t, app.View(), "store offline")
}

func TestApp_RenderTranscript(t *testing.T) {
	stub := &stubConversation{
		snapshot: domain.ConversationSnapshot{
			Turns: []domain.Turn{
				{ID: 1, Role: domain.RoleUser, Content: "IIT Bombay"},
				{ID: 2, Role: domain.RoleAssistant, Content: "Please confirm which one is your college.",
					Evidence: []domain.SourceRef{{Label: "page", Locator: "https://www.iitb.ac.in"}}},
			},
			Candidates: []domain.Candidate{
				{Name: "IIT Bombay", URL: "https://www.iitb.ac.in", Confidence: domain.ConfidenceHigh},
			},
			PromptOpen: true,
		},
	}
	app := newTestApp(t, stub)

	out := app.renderTranscript()

	assert.Contains(t, out, "you: IIT Bombay")
	assert.Contains(t, out, "campusquery: Please confirm")
	assert.Contains(t, out, "[1] IIT Bombay")
	assert.Contains(t, out, "high confidence")
	assert.Contains(t, out, "[page] https://www.iitb.ac.in")
}

func TestApp_ViewShowsBoundCollege(t *testing.T) {
	stub := &stubConversation{
		snapshot: domain.ConversationSnapshot{
			College: &domain.College{ID: "42", Name: "IIT Bombay"},
		},
	}
	app := newTestApp(t, stub)

	assert.Contains(t, app.View(), "IIT Bombay")
}
