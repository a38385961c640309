package memory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SaiNageswarS/go-api-boot/odm"
)

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
	RoleTool      TurnRole = "tool"
)

const DefaultTitle = "New Chat"

// ToolCallRecord is a tool invocation requested by the model. Arguments is the raw JSON text.
type ToolCallRecord struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Arguments string `bson:"arguments" json:"arguments"`
}

// Turn is one persisted transcript entry. Tool turns carry the id and name of
// the call they answer; assistant turns may carry the calls they issued.
type Turn struct {
	Role       TurnRole         `bson:"role" json:"role"`
	Content    string           `bson:"content" json:"content"`
	ToolCalls  []ToolCallRecord `bson:"toolCalls,omitempty" json:"toolCalls,omitempty"`
	ToolCallID string           `bson:"toolCallId,omitempty" json:"toolCallId,omitempty"`
	ToolName   string           `bson:"toolName,omitempty" json:"toolName,omitempty"`
	Timestamp  int64            `bson:"timestamp" json:"timestamp"`
}

// Conversation is the stored transcript of one chat, owned by a single user.
// Documents are keyed by owner and conversation id together.
type Conversation struct {
	Key       string `bson:"_id" json:"-"`
	ID        string `bson:"conversationId" json:"conversationId"`
	UserID    string `bson:"userId" json:"userId"`
	Title     string `bson:"title" json:"title"`
	Turns     []Turn `bson:"turns" json:"turns"`
	CreatedOn int64  `bson:"createdOn" json:"createdOn"`
	UpdatedOn int64  `bson:"updatedOn" json:"updatedOn"`
}

func (m Conversation) Id() string {
	if m.Key == "" {
		return ConversationKey(m.UserID, m.ID)
	}
	return m.Key
}

// ConversationKey is the document id for a user's conversation.
func ConversationKey(userID, conversationID string) string {
	key, _ := odm.HashedKey(userID + "/" + conversationID)
	return key
}

func (m Conversation) CollectionName() string {
	return "conversations"
}

func NewConversation(conversationID, userID string, now time.Time) *Conversation {
	return &Conversation{
		Key:       ConversationKey(userID, conversationID),
		ID:        conversationID,
		UserID:    userID,
		Title:     DefaultTitle,
		Turns:     []Turn{},
		CreatedOn: now.UnixMilli(),
		UpdatedOn: now.UnixMilli(),
	}
}

func (m *Conversation) AddUserTurn(content string, at time.Time) {
	m.append(Turn{Role: RoleUser, Content: content, Timestamp: at.UnixMilli()})
}

func (m *Conversation) AddAssistantTurn(content string, calls []ToolCallRecord, at time.Time) {
	m.append(Turn{Role: RoleAssistant, Content: content, ToolCalls: calls, Timestamp: at.UnixMilli()})
}

func (m *Conversation) AddToolResultTurn(callID, toolName, content string, at time.Time) {
	m.append(Turn{Role: RoleTool, Content: content, ToolCallID: callID, ToolName: toolName, Timestamp: at.UnixMilli()})
}

func (m *Conversation) append(turn Turn) {
	m.Turns = append(m.Turns, turn)
	if turn.Timestamp > m.UpdatedOn {
		m.UpdatedOn = turn.Timestamp
	}
}

// Title derives a conversation title from its first message, truncated to
// maxLen characters with an ellipsis.
func Title(firstMessage string, maxLen int) string {
	text := strings.TrimSpace(firstMessage)
	if text == "" {
		return DefaultTitle
	}
	if maxLen <= 0 || utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	return string([]rune(text)[:maxLen]) + "..."
}

// ContextWindow keeps the turns from the maxUserTurns-th most recent user turn
// onwards, so tool calls stay together with their results. Non-positive
// maxUserTurns keeps everything.
func ContextWindow(turns []Turn, maxUserTurns int) []Turn {
	if maxUserTurns <= 0 {
		return turns
	}

	usersSeen := 0
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			usersSeen++
			if usersSeen == maxUserTurns {
				return turns[i:]
			}
		}
	}
	return turns
}
