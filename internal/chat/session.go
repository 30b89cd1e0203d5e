package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"snowcore/internal/models"
)

// WelcomeText seeds every new session.
const WelcomeText = "Hello! I'm your Snowcore Reliability Copilot. I can help you understand " +
	"maintenance priorities, analyze asset risks, and make cost-effective decisions. " +
	"What would you like to know?"

// ErrorText replaces the assistant placeholder when the upstream call fails.
const ErrorText = "Sorry, I encountered an error. Please try again."

// SuggestedQuestions are the starter prompts shown while the conversation is
// still fresh.
var SuggestedQuestions = []string{
	"Which assets need urgent maintenance?",
	"What is the expected cost if AUTOCLAVE_01 fails?",
	"Show me the highest risk assets",
	"Compare PM cost vs unplanned failure cost",
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn. Streaming marks an assistant message whose
// content is still being revealed.
type Message struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Sources   []models.Source   `json:"sources,omitempty"`
	ToolCalls []models.ToolCall `json:"toolCalls,omitempty"`
	Streaming bool              `json:"streaming,omitempty"`
	Error     bool              `json:"error,omitempty"`
}

// Session is one conversation. It always starts with the welcome message and
// only ever grows.
type Session struct {
	mu       sync.RWMutex
	id       string
	messages []Message
	busy     bool
}

func NewSession() *Session {
	return &Session{
		id: uuid.NewString(),
		messages: []Message{{
			ID:        "welcome",
			Role:      RoleAssistant,
			Content:   WelcomeText,
			Timestamp: time.Now(),
		}},
	}
}

func (s *Session) ID() string { return s.id }

// Messages returns a snapshot of the conversation.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// ShowSuggestions reports whether the starter prompts still apply: only the
// welcome message plus at most one exchange-opening user message exist.
func (s *Session) ShowSuggestions() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages) <= 2
}

// begin appends the user message and a streaming assistant placeholder in one
// step, so the conversation grows by exactly two messages per submission.
// It fails when a previous submission is still streaming.
func (s *Session) begin(userText string) (placeholderID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return "", false
	}
	s.busy = true
	now := time.Now()
	s.messages = append(s.messages,
		Message{
			ID:        uuid.NewString(),
			Role:      RoleUser,
			Content:   userText,
			Timestamp: now,
		},
		Message{
			ID:        uuid.NewString(),
			Role:      RoleAssistant,
			Timestamp: now,
			Streaming: true,
		},
	)
	return s.messages[len(s.messages)-1].ID, true
}

// reveal replaces the placeholder's visible content mid-stream.
func (s *Session) reveal(placeholderID, content string, streaming bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == placeholderID {
			s.messages[i].Content = content
			s.messages[i].Streaming = streaming
			return
		}
	}
}

// finish settles the placeholder with the full answer and its attachments.
func (s *Session) finish(placeholderID string, resp *models.ChatResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	for i := range s.messages {
		if s.messages[i].ID == placeholderID {
			s.messages[i].Content = resp.Text()
			s.messages[i].Sources = resp.Sources
			s.messages[i].ToolCalls = resp.ToolCalls
			s.messages[i].Streaming = false
			return
		}
	}
}

// fail settles the placeholder with the error text.
func (s *Session) fail(placeholderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	for i := range s.messages {
		if s.messages[i].ID == placeholderID {
			s.messages[i].Content = ErrorText
			s.messages[i].Streaming = false
			s.messages[i].Error = true
			return
		}
	}
}
