package models

// ChatRequest is the body posted to the upstream copilot endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

type Source struct {
	Title   string  `json:"title"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

type ToolCall struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	SQL      string `json:"sql,omitempty"`
	Output   any    `json:"output,omitempty"`
	Duration int64  `json:"duration,omitempty"`
}

// ChatResponse carries the copilot answer. Older deployments return the text
// under "content" instead of "response"; Text handles both.
type ChatResponse struct {
	Response  string     `json:"response"`
	Content   string     `json:"content"`
	Sources   []Source   `json:"sources"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

func (r *ChatResponse) Text() string {
	if r.Response != "" {
		return r.Response
	}
	return r.Content
}
