package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/travel-boot/llm"
	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/prompts"
	"go.uber.org/zap"
)

const (
	replyModelUnavailable = "I'm sorry, I encountered an error while processing your request. Please try again later."
	replySummaryFailed    = "Sorry, I encountered an issue while summarizing your travel request. Please try again or contact support."
	replySummaryEmpty     = "I have processed your travel request, but couldn't generate a summary. Please try again."
	replyEmpty            = "I received your message."
)

// Execute handles one chat request. The conversation is persisted once the
// reply is known, including when the first model call fails.
func (o *Orchestrator) Execute(ctx context.Context, reporter ProgressReporter, req *TravelRequest) (*TravelResponse, error) {
	startTime := getCurrentTimeMs()
	if reporter == nil {
		reporter = &NoOpProgressReporter{}
	}

	incoming := nonBlankMessages(req.Messages)
	if len(incoming) == 0 {
		return nil, ErrEmptyInput
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = o.config.NewID()
	}

	conversation, err := o.loadConversation(ctx, conversationID, req.UserID, incoming)
	if err != nil {
		return nil, err
	}

	messages, err := o.config.Reconciler.Context(conversation)
	if err != nil {
		logger.Error("Rejecting malformed conversation", zap.String("conversationId", conversationID), zap.Error(err))
		return nil, err
	}
	state := DeriveGatingState(conversation.Turns)

	response := &TravelResponse{ConversationID: conversationID, ToolResults: []ToolResult{}}

	text, calls, err := o.selectTools(ctx, messages)
	if err != nil {
		logger.Error("Model call failed", zap.String("conversationId", conversationID), zap.Error(err))
		reporter.Send(NewStreamError(replyModelUnavailable, ErrorCodeInferenceFailed))

		conversation.AddAssistantTurn(replyModelUnavailable, nil, o.config.Clock())
		if saveErr := o.config.Store.Save(ctx, conversation); saveErr != nil {
			logger.Error("Failed to save conversation", zap.String("conversationId", conversationID), zap.Error(saveErr))
		}
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	if len(calls) == 0 {
		response.Reply = strings.TrimSpace(text)
		if response.Reply == "" {
			response.Reply = replyEmpty
		}
	} else {
		response.ToolResults = o.runToolCalls(ctx, reporter, conversation, &state, text, calls)
		response.Reply = o.synthesizeReply(ctx, reporter, conversation, response.ToolResults)
	}

	conversation.AddAssistantTurn(response.Reply, nil, o.config.Clock())
	if err := o.config.Store.Save(ctx, conversation); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	response.ProcessingTime = getCurrentTimeMs() - startTime
	reporter.Send(NewStreamComplete(response))
	return response, nil
}

func (o *Orchestrator) loadConversation(ctx context.Context, conversationID, userID string, incoming []IncomingMessage) (*memory.Conversation, error) {
	now := o.config.Clock()

	conversation, err := o.config.Store.FindOne(ctx, conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if conversation != nil {
		o.config.Reconciler.Append(conversation, incoming, now)
		return conversation, nil
	}

	conversation = o.config.Reconciler.Seed(conversationID, userID, incoming, now)
	if err := o.config.Store.Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	logger.Info("Started conversation", zap.String("conversationId", conversationID), zap.String("title", conversation.Title))
	return conversation, nil
}

// selectTools is the first model call: the model either answers directly or requests tools.
func (o *Orchestrator) selectTools(ctx context.Context, messages []llm.Message) (string, []llm.ToolCall, error) {
	systemPrompt, err := prompts.RenderTravelSystemPrompt(o.config.Clock(), o.agentNames())
	if err != nil {
		return "", nil, fmt.Errorf("error rendering system prompt: %w", err)
	}

	var text strings.Builder
	var calls []llm.ToolCall
	err = o.config.Model.GenerateInferenceWithTools(
		ctx, messages,
		func(chunk string) error {
			text.WriteString(chunk)
			return nil
		},
		func(toolCalls []llm.ToolCall) error {
			calls = append(calls, toolCalls...)
			return nil
		},
		llm.WithTools(o.config.Tools),
		llm.WithMaxTokens(o.config.MaxTokens),
		llm.WithTemperature(o.config.Temperature),
		llm.WithSystemPrompt(systemPrompt),
	)
	return text.String(), calls, err
}

// runToolCalls assigns call ids, records the assistant turn, then executes the
// calls in order. Each call is gated on the outcome of the calls before it.
func (o *Orchestrator) runToolCalls(
	ctx context.Context,
	reporter ProgressReporter,
	conversation *memory.Conversation,
	state *GatingState,
	text string,
	calls []llm.ToolCall,
) []ToolResult {
	records := make([]memory.ToolCallRecord, len(calls))
	for i := range calls {
		calls[i].ID = newToolCallID(calls[i].Name)
		if strings.TrimSpace(calls[i].Arguments) == "" {
			calls[i].Arguments = "{}"
		}
		records[i] = memory.ToolCallRecord{ID: calls[i].ID, Name: calls[i].Name, Arguments: calls[i].Arguments}
	}
	conversation.AddAssistantTurn(strings.TrimSpace(text), records, o.config.Clock())

	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		result := o.RunTool(ctx, reporter, state, call)
		results = append(results, result)

		content, err := json.Marshal(result.Result)
		if err != nil {
			content, _ = json.Marshal(map[string]any{"agent": result.Agent, "error": "Tool result could not be encoded"})
		}
		conversation.AddToolResultTurn(call.ID, call.Name, string(content), o.config.Clock())
	}

	return results
}

// synthesizeReply is the second model call. Tools stay advertised so providers
// accept the tool turns in the transcript, but any new calls are ignored.
func (o *Orchestrator) synthesizeReply(ctx context.Context, reporter ProgressReporter, conversation *memory.Conversation, results []ToolResult) string {
	reporter.Send(NewProgressUpdate(StageAnswerGeneration, "", "Summarizing agent results"))

	systemPrompt, err := prompts.RenderFinalReplyPrompt(o.config.Renderer.Render(results))
	if err != nil {
		logger.Error("Failed to render final reply prompt", zap.Error(err))
		return replySummaryFailed
	}

	messages, err := o.config.Reconciler.Context(conversation)
	if err != nil {
		logger.Error("Transcript invalid after tool execution", zap.String("conversationId", conversation.ID), zap.Error(err))
		return replySummaryFailed
	}

	var reply strings.Builder
	err = o.config.Model.GenerateInferenceWithTools(
		ctx, messages,
		func(chunk string) error {
			reply.WriteString(chunk)
			return nil
		},
		func(toolCalls []llm.ToolCall) error {
			logger.Info("Ignoring tool calls during reply synthesis", zap.Int("count", len(toolCalls)))
			return nil
		},
		llm.WithTools(o.config.Tools),
		llm.WithMaxTokens(o.config.MaxTokens),
		llm.WithTemperature(o.config.Temperature),
		llm.WithSystemPrompt(systemPrompt),
	)
	if err != nil {
		logger.Error("Failed to synthesize reply", zap.String("conversationId", conversation.ID), zap.Error(err))
		reporter.Send(NewStreamError(replySummaryFailed, "summary_failed"))
		return replySummaryFailed
	}

	if text := strings.TrimSpace(reply.String()); text != "" {
		return text
	}
	return replySummaryEmpty
}

func (o *Orchestrator) agentNames() []string {
	names := make([]string, 0, len(o.config.Tools))
	for _, tool := range o.config.Tools {
		names = append(names, o.config.Agents.DisplayName(tool.Function.Name))
	}
	return names
}
