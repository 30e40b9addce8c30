package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driving"
	"github.com/campusquery/campusquery-cli/internal/logger"
)

// Ensure ConversationService implements the interface.
var _ driving.Conversation = (*ConversationService)(nil)

// Assistant messages. Kept together so the conversational voice stays
// consistent across transitions.
const (
	msgFoundCandidates = "I found %d possible website(s) for %q. Please confirm which one is your college."
	msgResolveFailed   = "Sorry, I couldn't find an official website for %q. Could you check the spelling and try again?"
	msgConfirmStarted  = "Setting up %s, this may take a moment while I index the official website."
	msgConfirmReady    = "All set! You can now ask me anything about %s."
	msgConfirmFailed   = "Sorry, I couldn't set up %s: %s. Please try the name again."
	msgRejected        = "No problem. Tell me the college name again and I'll have another look."
	msgBroaderStarted  = "Searching the web for %q instead..."
	msgBroaderFound    = "The web search found %d possible website(s) for %q. Please confirm which one is your college."
	msgBroaderFailed   = "Sorry, the web search couldn't find an official website for %q either. Try a different name or spelling."
	msgAskFailed       = "Sorry, I couldn't answer that right now. Please try again in a moment."
)

// ConversationService is the conversation controller. It owns all session
// state and applies commands as atomic transitions: while a college is
// unbound, utterances are resolved as college names; once bound, they are
// asked as grounded questions.
//
// One backend call may be outstanding at a time, gated by the in-flight
// flag. Commands arriving while in flight are dropped silently. The lock is
// never held across a backend call; results are applied only if the session
// generation recorded at issue time still matches, so a response racing a
// reset is discarded instead of mutating the fresh session.
type ConversationService struct {
	backend  driven.BackendGateway
	sessions driven.SessionStore // optional; nil disables persistence

	mu          sync.Mutex
	sessionID   string
	sessionName string
	turns       []domain.Turn
	nextTurnID  int64
	candidates  []domain.Candidate
	promptOpen  bool
	college     *domain.College
	pendingName string
	inFlight    bool
	lastError   string
	generation  uint64
}

// NewConversationService creates a conversation controller backed by the
// given gateway. The session store is optional.
func NewConversationService(backend driven.BackendGateway, sessions driven.SessionStore) *ConversationService {
	return &ConversationService{
		backend:     backend,
		sessions:    sessions,
		sessionID:   uuid.NewString(),
		sessionName: "default",
	}
}

// SetSessionName sets the key used when persisting the session.
func (s *ConversationService) SetSessionName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.sessionName = name
	}
}

// SubmitUtterance processes one line of user input.
func (s *ConversationService) SubmitUtterance(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.inFlight {
		logger.Debug("Submission dropped: operation in flight")
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	gen := s.generation
	s.appendTurnLocked(domain.RoleUser, text, nil, nil)

	bound := s.college != nil
	var collegeID string
	if bound {
		collegeID = s.college.ID
	} else {
		s.pendingName = text
	}
	s.mu.Unlock()

	if bound {
		s.askQuestion(ctx, gen, collegeID, text)
		return
	}
	s.resolveName(ctx, gen, text, false)
}

// resolveName calls the resolve operation and applies the outcome.
// broader selects the web-search phrasing for the result turns.
func (s *ConversationService) resolveName(ctx context.Context, gen uint64, name string, broader bool) {
	logger.Info("Resolving college name %q (forceSearch=%t)", name, broader)
	candidates, err := s.backend.Resolve(ctx, name, broader)

	s.applyResult(gen, func() {
		switch {
		case err != nil:
			reason := driven.FailureReason(err)
			logger.Warn("Resolve failed: %s", reason)
			s.lastError = reason
			if broader {
				s.appendTurnf(msgBroaderFailed, name)
			} else {
				s.appendTurnf(msgResolveFailed, name)
			}

		case len(candidates) == 0:
			// A successful resolve with nothing in it. The prompt stays
			// closed; there is nothing to confirm.
			logger.Info("Resolve returned zero candidates for %q", name)
			s.lastError = "no websites found"
			if broader {
				s.appendTurnf(msgBroaderFailed, name)
			} else {
				s.appendTurnf(msgResolveFailed, name)
			}

		default:
			logger.Info("Resolve returned %d candidate(s)", len(candidates))
			s.candidates = append([]domain.Candidate(nil), candidates...)
			s.promptOpen = true
			if broader {
				s.appendTurnf(msgBroaderFound, len(candidates), name)
			} else {
				s.appendTurnf(msgFoundCandidates, len(candidates), name)
			}
		}
	})
}

// askQuestion calls the ask operation and applies the outcome.
func (s *ConversationService) askQuestion(ctx context.Context, gen uint64, collegeID, question string) {
	logger.Info("Asking question about college %s", collegeID)
	answer, err := s.backend.Ask(ctx, collegeID, question)

	s.applyResult(gen, func() {
		if err != nil {
			reason := driven.FailureReason(err)
			logger.Warn("Ask failed: %s", reason)
			s.lastError = reason
			s.appendTurnf(msgAskFailed)
			return
		}

		var source *domain.SourceRef
		if answer.SourcePage != "" || answer.SourceURL != "" {
			source = &domain.SourceRef{Label: answer.SourcePage, Locator: answer.SourceURL}
		}
		s.appendTurnLocked(domain.RoleAssistant, answer.Text, answer.Sources, source)
	})
}

// ConfirmCandidate selects one candidate and triggers backend preparation.
func (s *ConversationService) ConfirmCandidate(ctx context.Context, candidate domain.Candidate) {
	s.mu.Lock()
	if s.inFlight || !s.promptOpen || !s.isCurrentCandidateLocked(candidate) {
		s.mu.Unlock()
		return
	}

	// The prompt closes and the batch is discarded up front; on failure the
	// user restarts from a fresh utterance rather than the stale batch.
	s.promptOpen = false
	s.candidates = nil
	s.inFlight = true
	gen := s.generation
	name := s.pendingName
	s.appendTurnf(msgConfirmStarted, name)
	s.mu.Unlock()

	logger.Info("Confirming candidate %q (%s) for %q", candidate.Name, candidate.URL, name)
	result, err := s.backend.Confirm(ctx, candidate.URL, name)

	s.applyResult(gen, func() {
		if err != nil {
			reason := driven.FailureReason(err)
			logger.Warn("Confirm failed: %s", reason)
			s.lastError = reason
			s.appendTurnf(msgConfirmFailed, name, reason)
			return
		}

		s.college = &domain.College{
			ID:         result.CollegeID,
			Name:       name,
			Domain:     candidate.URL,
			PagesCount: result.PagesCount,
		}
		s.pendingName = ""
		logger.Info("Bound college %s (%d pages, status %s)", result.CollegeID, result.PagesCount, result.Status)
		if result.Message != "" {
			s.appendTurnLocked(domain.RoleAssistant, result.Message+" You can now ask me anything about "+name+".", nil, nil)
		} else {
			s.appendTurnf(msgConfirmReady, name)
		}
	})
}

// RejectCandidates discards the current batch without a backend call.
func (s *ConversationService) RejectCandidates() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight || !s.promptOpen {
		return
	}
	s.promptOpen = false
	s.candidates = nil
	s.appendTurnf(msgRejected)
	s.persistLocked()
}

// RequestBroaderSearch re-resolves the pending name with forceSearch.
func (s *ConversationService) RequestBroaderSearch(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight || !s.promptOpen {
		s.mu.Unlock()
		return
	}
	s.promptOpen = false
	s.candidates = nil
	s.inFlight = true
	gen := s.generation
	name := s.pendingName
	s.appendTurnf(msgBroaderStarted, name)
	s.mu.Unlock()

	s.resolveName(ctx, gen, name, true)
}

// ResetSession clears all session state. An in-flight response arriving
// after reset is discarded by the generation check rather than cancelled.
func (s *ConversationService) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.sessionID = uuid.NewString()
	s.turns = nil
	s.nextTurnID = 0
	s.candidates = nil
	s.promptOpen = false
	s.college = nil
	s.pendingName = ""
	s.inFlight = false
	s.lastError = ""
	logger.Info("Session reset (generation %d)", s.generation)

	if s.sessions != nil {
		if err := s.sessions.Delete(context.Background(), s.sessionName); err != nil {
			logger.Warn("Deleting persisted session: %v", err)
		}
	}
}

// RestoreSession rebinds a previously persisted session.
func (s *ConversationService) RestoreSession(ctx context.Context, name string) error {
	if s.sessions == nil {
		return domain.ErrNotFound
	}

	record, err := s.sessions.Get(ctx, name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	gen := s.generation
	s.sessionID = record.ID
	s.sessionName = record.Name
	s.turns = append([]domain.Turn(nil), record.Turns...)
	s.nextTurnID = 0
	for _, turn := range record.Turns {
		if turn.ID > s.nextTurnID {
			s.nextTurnID = turn.ID
		}
	}
	s.college = record.College
	s.candidates = nil
	s.promptOpen = false
	s.pendingName = ""
	s.lastError = ""
	collegeID := ""
	if record.College != nil {
		collegeID = record.College.ID
	}
	s.mu.Unlock()

	logger.Info("Restored session %q (%d turns)", name, len(record.Turns))

	if collegeID == "" {
		return nil
	}

	// Refresh the descriptor so the pages count reflects any indexing that
	// happened since the session was saved. Failure keeps the stale count.
	info, err := s.backend.FetchCollege(ctx, collegeID)
	if err != nil {
		logger.Warn("Refreshing college %s: %v", collegeID, err)
		return nil
	}

	s.mu.Lock()
	if gen == s.generation && s.college != nil && s.college.ID == collegeID {
		s.college.PagesCount = info.PagesCount
	}
	s.mu.Unlock()
	return nil
}

// Snapshot returns an immutable copy of the session state.
func (s *ConversationService) Snapshot() domain.ConversationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.ConversationSnapshot{
		Turns:       append([]domain.Turn(nil), s.turns...),
		Candidates:  append([]domain.Candidate(nil), s.candidates...),
		PromptOpen:  s.promptOpen,
		PendingName: s.pendingName,
		InFlight:    s.inFlight,
		LastError:   s.lastError,
	}
	if s.college != nil {
		college := *s.college
		snap.College = &college
	}
	return snap
}

// applyResult applies a backend call outcome and releases the in-flight
// gate, unless the session generation changed while the call was
// outstanding; then the response is stale and discarded without a turn.
func (s *ConversationService) applyResult(gen uint64, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		logger.Debug("Discarding stale response (generation %d, now %d)", gen, s.generation)
		return
	}
	apply()
	s.inFlight = false
	s.persistLocked()
}

// isCurrentCandidateLocked reports whether the candidate is a member of the
// current batch. Caller must hold the lock.
func (s *ConversationService) isCurrentCandidateLocked(candidate domain.Candidate) bool {
	for _, c := range s.candidates {
		if c.URL == candidate.URL && c.Name == candidate.Name {
			return true
		}
	}
	return false
}

// appendTurnLocked appends one turn to the log. Caller must hold the lock.
func (s *ConversationService) appendTurnLocked(role domain.TurnRole, content string, evidence []domain.SourceRef, source *domain.SourceRef) {
	s.nextTurnID++
	s.turns = append(s.turns, domain.Turn{
		ID:        s.nextTurnID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Evidence:  evidence,
		Source:    source,
	})
}

// appendTurnf appends a formatted assistant turn. Caller must hold the lock.
func (s *ConversationService) appendTurnf(format string, args ...any) {
	s.appendTurnLocked(domain.RoleAssistant, fmt.Sprintf(format, args...), nil, nil)
}

// persistLocked saves the session best-effort. Caller must hold the lock.
// Persistence failures are logged, never surfaced into the conversation.
func (s *ConversationService) persistLocked() {
	if s.sessions == nil {
		return
	}
	record := domain.SessionRecord{
		ID:        s.sessionID,
		Name:      s.sessionName,
		College:   s.college,
		Turns:     append([]domain.Turn(nil), s.turns...),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Save(context.Background(), record); err != nil {
		logger.Warn("Persisting session %q: %v", s.sessionName, err)
	}
}
