package models

// CompletionRequest is the body posted to the completion proxy.
type CompletionRequest struct {
	Messages  []CompletionMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionContent struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// CompletionEnvelope is the structured reply; the proxy may also answer with a bare string.
type CompletionEnvelope struct {
	Content []CompletionContent `json:"content"`
}
