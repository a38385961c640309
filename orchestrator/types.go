package orchestrator

import "github.com/SaiNageswarS/travel-boot/llm"

// IncomingMessage is a chat message as submitted by a client.
type IncomingMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TravelRequest struct {
	UserID         string            `json:"-"`
	ConversationID string            `json:"conversationId,omitempty"`
	Messages       []IncomingMessage `json:"messages"`
}

// ToolResult pairs an executed tool call with the JSON object it produced.
type ToolResult struct {
	Agent    string         `json:"agent"`
	ToolCall llm.ToolCall   `json:"toolCall"`
	Result   map[string]any `json:"result"`
}

type TravelResponse struct {
	Reply          string       `json:"reply"`
	ConversationID string       `json:"conversationId"`
	ToolResults    []ToolResult `json:"toolResults"`
	ProcessingTime int64        `json:"processingTimeMs"`
}
