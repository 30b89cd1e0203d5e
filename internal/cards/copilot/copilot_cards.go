package copilot

import (
	"github.com/gin-gonic/gin"

	cards "snowcore/internal/cards"
	"snowcore/internal/chat"
)

func init() {
	cards.Register(conversationCard{})
}

type conversationCard struct{}

func (conversationCard) ID() string              { return "chat-conversation" }
func (conversationCard) Template() string        { return "cards/chat_conversation.html" }
func (conversationCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenChat} }
func (conversationCard) Slot() cards.Slot        { return cards.SlotPrimary }

// FetchData resolves the caller's chat session from the sessionId query
// parameter, creating one when absent, and exposes the transcript plus the
// starter prompts while the conversation is still fresh.
func (conversationCard) FetchData(req *cards.Request) (gin.H, error) {
	if req == nil || req.Chat == nil {
		return gin.H{
			"messages":           []chat.Message{},
			"suggestedQuestions": chat.SuggestedQuestions,
		}, nil
	}
	sessionID := ""
	if req.Context != nil {
		sessionID = req.Context.Query("sessionId")
	}
	sess := req.Chat.Session(sessionID)
	data := gin.H{
		"sessionId": sess.ID(),
		"messages":  sess.Messages(),
	}
	if sess.ShowSuggestions() {
		data["suggestedQuestions"] = chat.SuggestedQuestions
	}
	return data, nil
}
