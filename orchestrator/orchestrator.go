package orchestrator

import (
	"context"
	"time"

	"github.com/SaiNageswarS/travel-boot/gateway"
	"github.com/SaiNageswarS/travel-boot/llm"
	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/tools"
	"github.com/ollama/ollama/api"
)

// AgentCaller executes a tool call against its downstream agent.
type AgentCaller interface {
	CallAgent(ctx context.Context, toolName string, params map[string]any) gateway.AgentResult
	DisplayName(toolName string) string
}

// OrchestratorConfig holds configuration for the orchestrator
type OrchestratorConfig struct {
	Model       llm.LLMClient
	Store       memory.ConversationStore
	Agents      AgentCaller
	Mapper      *tools.Mapper
	Tools       []api.Tool
	Renderer    *ToolResultRenderer
	Reconciler  *Reconciler
	MaxTokens   int
	Temperature float64

	Clock func() time.Time
	NewID func() string
}

// Orchestrator runs one chat request end to end: transcript reconciliation,
// model tool selection, gated agent calls and reply synthesis. Concurrent
// requests on the same conversation are not serialized; the last save wins.
type Orchestrator struct {
	config OrchestratorConfig
}
