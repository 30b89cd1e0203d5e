package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"snowcore/internal/models"
)

// revealDelay paces the word-by-word reveal of an answer.
const revealDelay = 20 * time.Millisecond

// Client is the upstream copilot call the service depends on.
type Client interface {
	Chat(ctx context.Context, message string) (*models.ChatResponse, error)
}

// Service owns chat sessions and streams copilot answers into them. Answers
// arrive from the upstream as one blob; the service reveals them a word at a
// time so the handler can forward increments as server-sent events.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	client   Client
	log      *log.Logger
	// delay is overridable so tests do not sleep.
	delay time.Duration
}

func NewService(client Client, logger *log.Logger) *Service {
	return &Service{
		sessions: make(map[string]*Session),
		client:   client,
		log:      logger,
		delay:    revealDelay,
	}
}

// Session returns the session with the given id, creating it on first use.
// An empty id always creates a fresh session.
func (s *Service) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			return sess
		}
	}
	sess := NewSession()
	s.sessions[sess.ID()] = sess
	return sess
}

// Chunk is one increment of a streaming answer.
type Chunk struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
	Done      bool   `json:"done"`
	Error     bool   `json:"error,omitempty"`
}

// Submit sends the user's message upstream and streams the answer back
// through emit, one growing prefix per word. The conversation gains exactly
// two messages regardless of outcome. Cancelling ctx stops the reveal; the
// session still settles with whatever answer was received.
func (s *Service) Submit(ctx context.Context, sess *Session, text string, emit func(Chunk)) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	placeholderID, ok := sess.begin(text)
	if !ok {
		return ErrBusy
	}

	resp, err := s.client.Chat(ctx, text)
	if err != nil {
		s.log.Warn("copilot request failed", "session", sess.ID(), "err", err)
		sess.fail(placeholderID)
		emit(Chunk{MessageID: placeholderID, Content: ErrorText, Done: true, Error: true})
		return nil
	}

	full := resp.Text()
	words := strings.Split(full, " ")
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(w)
		last := i == len(words)-1
		sess.reveal(placeholderID, b.String(), !last)
		emit(Chunk{MessageID: placeholderID, Content: b.String(), Done: last})
		if last {
			break
		}
		select {
		case <-ctx.Done():
			sess.finish(placeholderID, resp)
			return ctx.Err()
		case <-time.After(s.delay):
		}
	}

	sess.finish(placeholderID, resp)
	return nil
}
