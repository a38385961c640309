package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/travel-boot/llm"
	"github.com/SaiNageswarS/travel-boot/memory"
	"go.uber.org/zap"
)

// Reconciler turns persisted turns plus incoming messages into a transcript
// the model accepts: every assistant tool call is answered by exactly one
// tool result, in order, before the next non-tool message.
type Reconciler struct {
	titleMaxLength      int
	maxContextUserTurns int
}

func NewReconciler(titleMaxLength, maxContextUserTurns int) *Reconciler {
	return &Reconciler{titleMaxLength: titleMaxLength, maxContextUserTurns: maxContextUserTurns}
}

// Seed starts a conversation from the first incoming message, which also names it.
func (r *Reconciler) Seed(conversationID, userID string, incoming []IncomingMessage, now time.Time) *memory.Conversation {
	conversation := memory.NewConversation(conversationID, userID, now)
	if len(incoming) == 0 {
		return conversation
	}
	conversation.Title = memory.Title(incoming[0].Content, r.titleMaxLength)
	appendIncoming(conversation, incoming[0], now)
	return conversation
}

// Append adds every incoming message to an existing conversation.
func (r *Reconciler) Append(conversation *memory.Conversation, incoming []IncomingMessage, now time.Time) {
	for _, msg := range incoming {
		appendIncoming(conversation, msg, now)
	}
}

// Context returns the model transcript for the conversation's recent turns.
func (r *Reconciler) Context(conversation *memory.Conversation) ([]llm.Message, error) {
	window := memory.ContextWindow(conversation.Turns, r.maxContextUserTurns)
	messages := replay(conversation.ID, window)
	if err := validatePairing(messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func appendIncoming(conversation *memory.Conversation, msg IncomingMessage, now time.Time) {
	content := strings.TrimSpace(msg.Content)
	switch msg.Role {
	case "assistant", "model":
		conversation.AddAssistantTurn(content, nil, now)
	default:
		conversation.AddUserTurn(content, now)
	}
}

// replay converts turns to model messages, dropping entries that cannot be
// represented. An assistant tool call and the results that follow it form a
// group: a result missing its name takes it from the matching call, and a
// group that still cannot be rebuilt is dropped whole. Calls left without
// results are kept and fail validation.
func replay(conversationID string, turns []memory.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	skip := func(turn memory.Turn, reason string) {
		logger.Info("Skipping stored turn",
			zap.String("conversationId", conversationID),
			zap.String("role", string(turn.Role)),
			zap.String("reason", reason))
	}

	for i := 0; i < len(turns); i++ {
		turn := turns[i]
		switch turn.Role {
		case memory.RoleUser:
			text := strings.TrimSpace(turn.Content)
			if text == "" {
				skip(turn, "empty content")
				continue
			}
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: text})

		case memory.RoleAssistant:
			j := i + 1
			for len(turn.ToolCalls) > 0 && j < len(turns) && turns[j].Role == memory.RoleTool {
				j++
			}
			calls, results, ok := replayToolGroup(turn, turns[i+1:j])
			text := strings.TrimSpace(turn.Content)
			if !ok {
				logger.Info("Dropping stored tool call group",
					zap.String("conversationId", conversationID),
					zap.Int("toolCalls", len(turn.ToolCalls)),
					zap.Int("toolResults", j-i-1))
				if text != "" {
					messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: text})
				}
				i = j - 1
				continue
			}
			if text == "" && len(calls) == 0 {
				skip(turn, "empty content")
				i = j - 1
				continue
			}
			msg := llm.Message{Role: llm.RoleAssistant, Content: text}
			if len(calls) > 0 {
				msg.ToolCalls = calls
			}
			messages = append(messages, msg)
			messages = append(messages, results...)
			i = j - 1

		case memory.RoleTool:
			// Results reached here have no preceding call and fail validation.
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    toolResultContent(turn.Content),
				ToolCallID: turn.ToolCallID,
				Name:       turn.ToolName,
			})

		default:
			skip(turn, "unknown role")
		}
	}

	return messages
}

// replayToolGroup rebuilds an assistant turn's tool calls and the tool turns
// stored directly after it. It reports false when any call lacks an id or
// name, or any result lacks a call id.
func replayToolGroup(assistant memory.Turn, toolTurns []memory.Turn) ([]llm.ToolCall, []llm.Message, bool) {
	names := make(map[string]string, len(assistant.ToolCalls))
	calls := make([]llm.ToolCall, 0, len(assistant.ToolCalls))
	for _, tc := range assistant.ToolCalls {
		if tc.ID == "" || tc.Name == "" {
			return nil, nil, false
		}
		names[tc.ID] = tc.Name
		calls = append(calls, llm.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
	}

	results := make([]llm.Message, 0, len(toolTurns))
	for _, turn := range toolTurns {
		if turn.ToolCallID == "" {
			return nil, nil, false
		}
		name, known := names[turn.ToolCallID]
		if !known {
			name = turn.ToolName
		}
		results = append(results, llm.Message{
			Role:       llm.RoleTool,
			Content:    toolResultContent(turn.Content),
			ToolCallID: turn.ToolCallID,
			Name:       name,
		})
	}
	return calls, results, true
}

// toolResultContent guarantees a JSON object, wrapping anything else as raw_content.
func toolResultContent(content string) string {
	var object map[string]any
	if err := json.Unmarshal([]byte(content), &object); err == nil && object != nil {
		return content
	}
	wrapped, _ := json.Marshal(map[string]string{"raw_content": content})
	return string(wrapped)
}

func validatePairing(messages []llm.Message) error {
	for i := 0; i < len(messages); i++ {
		msg := messages[i]
		if msg.Role == llm.RoleTool {
			return fmt.Errorf("%w: tool result %s has no matching call", ErrMalformedHistory, msg.ToolCallID)
		}
		if msg.Role != llm.RoleAssistant || len(msg.ToolCalls) == 0 {
			continue
		}

		open := make(map[string]bool, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			if open[tc.ID] {
				return fmt.Errorf("%w: duplicate tool call id %s", ErrMalformedHistory, tc.ID)
			}
			open[tc.ID] = true
		}

		j := i + 1
		for ; j < len(messages) && messages[j].Role == llm.RoleTool; j++ {
			id := messages[j].ToolCallID
			if !open[id] {
				return fmt.Errorf("%w: tool result %s has no matching call", ErrMalformedHistory, id)
			}
			delete(open, id)
		}
		for id := range open {
			return fmt.Errorf("%w: tool call %s has no result", ErrMalformedHistory, id)
		}
		i = j - 1
	}
	return nil
}
