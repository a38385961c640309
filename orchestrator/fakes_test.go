package orchestrator

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/SaiNageswarS/travel-boot/gateway"
	"github.com/SaiNageswarS/travel-boot/llm"
	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type modelReply struct {
	text  string
	calls []llm.ToolCall
	err   error
}

// scriptedModel answers each inference call with the next scripted reply.
type scriptedModel struct {
	replies  []modelReply
	received [][]llm.Message
}

func (m *scriptedModel) GenerateInference(ctx context.Context, messages []llm.Message, callback func(string) error, opts ...llm.LLMOption) error {
	return m.GenerateInferenceWithTools(ctx, messages, callback, nil, opts...)
}

func (m *scriptedModel) GenerateInferenceWithTools(
	ctx context.Context,
	messages []llm.Message,
	contentCallback func(string) error,
	toolCallback func([]llm.ToolCall) error,
	opts ...llm.LLMOption,
) error {
	m.received = append(m.received, slices.Clone(messages))
	if len(m.received) > len(m.replies) {
		return errors.New("unexpected model call")
	}

	reply := m.replies[len(m.received)-1]
	if reply.err != nil {
		return reply.err
	}
	if reply.text != "" {
		if err := contentCallback(reply.text); err != nil {
			return err
		}
	}
	if len(reply.calls) > 0 && toolCallback != nil {
		return toolCallback(slices.Clone(reply.calls))
	}
	return nil
}

func (m *scriptedModel) Capabilities() llm.Capability { return llm.NativeToolCalling }
func (m *scriptedModel) GetModel() string             { return "scripted" }

// memoryStore keeps conversations in a map and hands out copies.
type memoryStore struct {
	mu            sync.Mutex
	conversations map[string]memory.Conversation
	findErr       error
	saveErr       error
	saves         int
}

func newMemoryStore(seed ...memory.Conversation) *memoryStore {
	s := &memoryStore{conversations: map[string]memory.Conversation{}}
	for _, c := range seed {
		s.conversations[c.Id()] = c
	}
	return s
}

func (s *memoryStore) FindOne(ctx context.Context, conversationID, userID string) (*memory.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	c, ok := s.conversations[memory.ConversationKey(userID, conversationID)]
	if !ok {
		return nil, nil
	}
	c.Turns = slices.Clone(c.Turns)
	return &c, nil
}

func (s *memoryStore) Create(ctx context.Context, c *memory.Conversation) error {
	return s.Save(ctx, c)
}

func (s *memoryStore) Save(ctx context.Context, c *memory.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	copied := *c
	copied.Turns = slices.Clone(c.Turns)
	s.conversations[c.Id()] = copied
	return nil
}

func (s *memoryStore) ListByUser(ctx context.Context, userID string) ([]memory.Conversation, error) {
	var out []memory.Conversation
	for _, c := range s.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	memory.SortByRecent(out)
	return out, nil
}

// get returns a stored conversation of user-1.
func (s *memoryStore) get(t *testing.T, id string) memory.Conversation {
	t.Helper()
	c, ok := s.conversations[memory.ConversationKey("user-1", id)]
	require.True(t, ok, "conversation %s not stored", id)
	return c
}

type agentCall struct {
	tool   string
	params map[string]any
}

type fakeAgents struct {
	results map[string]gateway.AgentResult
	calls   []agentCall
}

func (a *fakeAgents) CallAgent(ctx context.Context, toolName string, params map[string]any) gateway.AgentResult {
	a.calls = append(a.calls, agentCall{tool: toolName, params: params})
	if result, ok := a.results[toolName]; ok {
		return result
	}
	return gateway.AgentResult{"agent": toolName, "ok": true}
}

func (a *fakeAgents) DisplayName(toolName string) string {
	return gateway.DefaultRegistry("", "", "").DisplayName(toolName)
}

func newTestOrchestrator(t *testing.T, model *scriptedModel, store *memoryStore, agents *fakeAgents) *Orchestrator {
	t.Helper()
	o, err := NewOrchestratorBuilder().
		WithModel(model).
		WithStore(store).
		WithAgents(agents).
		WithClock(func() time.Time { return testNow }).
		WithIDGenerator(func() string { return "conv-generated" }).
		Build()
	require.NoError(t, err)
	return o
}
