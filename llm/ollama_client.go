package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// OllamaClient talks to a local or remote Ollama server located through OLLAMA_HOST.
type OllamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(model string) LLMClient {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Fatal("Failed to create ollama client", zap.Error(err))
		return nil
	}
	return &OllamaClient{client: client, model: model}
}

func (c *OllamaClient) Capabilities() Capability {
	return NativeToolCalling
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	return c.GenerateInferenceWithTools(ctx, messages, callback, nil, opts...)
}

func (c *OllamaClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []ToolCall) error,
	opts ...LLMOption,
) error {
	settings := newSettings(c.model, opts)

	stream := false
	request := &api.ChatRequest{
		Model:    settings.model,
		Messages: toOllamaMessages(settings.system, messages),
		Stream:   &stream,
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}
	if toolCallback != nil {
		request.Tools = settings.tools
	}

	var content strings.Builder
	var requested []api.ToolCall
	err := c.client.Chat(ctx, request, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		requested = append(requested, resp.Message.ToolCalls...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}

	if content.Len() > 0 && contentCallback != nil {
		if err := contentCallback(content.String()); err != nil {
			return err
		}
	}

	if len(requested) > 0 && toolCallback != nil {
		calls := make([]ToolCall, len(requested))
		for i, tc := range requested {
			args, err := argumentsJSON(tc.Function.Arguments)
			if err != nil {
				return err
			}
			// Ollama does not issue call ids; the caller assigns them.
			calls[i] = ToolCall{Name: tc.Function.Name, Arguments: args}
		}
		return toolCallback(calls)
	}

	return nil
}

func toOllamaMessages(system string, messages []Message) []api.Message {
	out := make([]api.Message, 0, len(messages)+1)
	if system != "" {
		out = append(out, api.Message{Role: RoleSystem, Content: system})
	}

	for _, msg := range messages {
		converted := api.Message{Role: msg.Role, Content: msg.Content}
		for _, tc := range msg.ToolCalls {
			converted.ToolCalls = append(converted.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{Name: tc.Name, Arguments: argumentsMap(tc.Arguments)},
			})
		}
		out = append(out, converted)
	}
	return out
}
