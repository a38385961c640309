package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/generative-ai-go/genai"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(model string) LLMClient {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Fatal("GEMINI_API_KEY environment variable is not set")
		return nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		logger.Fatal("Failed to create gemini client", zap.Error(err))
		return nil
	}

	return &GeminiClient{client: client, model: model}
}

func (c *GeminiClient) Capabilities() Capability {
	return NativeToolCalling
}

func (c *GeminiClient) GetModel() string {
	return c.model
}

func (c *GeminiClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	return c.GenerateInferenceWithTools(ctx, messages, callback, nil, opts...)
}

func (c *GeminiClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []ToolCall) error,
	opts ...LLMOption,
) error {
	settings := newSettings(c.model, opts)

	model := c.client.GenerativeModel(settings.model)
	model.SetTemperature(float32(settings.temperature))
	model.SetMaxOutputTokens(int32(settings.maxTokens))
	if toolCallback != nil && len(settings.tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toFunctionDeclarations(settings.tools)}}
	}

	system, contents := toGeminiContents(settings.system, messages)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	if len(contents) == 0 {
		return fmt.Errorf("no messages to send")
	}

	chat := model.StartChat()
	chat.History = contents[:len(contents)-1]
	resp, err := chat.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fmt.Errorf("no candidates in response")
	}

	var text strings.Builder
	var calls []ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			call, err := fromFunctionCall(p)
			if err != nil {
				return err
			}
			calls = append(calls, call)
		case *genai.FunctionCall:
			call, err := fromFunctionCall(*p)
			if err != nil {
				return err
			}
			calls = append(calls, call)
		}
	}

	if text.Len() > 0 && contentCallback != nil {
		if err := contentCallback(text.String()); err != nil {
			return err
		}
	}

	if len(calls) > 0 && toolCallback != nil {
		return toolCallback(calls)
	}

	return nil
}

func fromFunctionCall(fc genai.FunctionCall) (ToolCall, error) {
	args, err := argumentsJSON(fc.Args)
	if err != nil {
		return ToolCall{}, err
	}
	return ToolCall{Name: fc.Name, Arguments: args}, nil
}

// toGeminiContents maps the transcript onto user/model contents. Tool results
// are function responses sent with the user role, and adjacent contents of the
// same role are merged so parallel call results arrive in one turn.
func toGeminiContents(system string, messages []Message) (string, []*genai.Content) {
	systemParts := []string{}
	if system != "" {
		systemParts = append(systemParts, system)
	}

	var out []*genai.Content
	push := func(role string, parts ...genai.Part) {
		if len(parts) == 0 {
			return
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, parts...)
			return
		}
		out = append(out, &genai.Content{Role: role, Parts: parts})
	}

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case RoleAssistant:
			var parts []genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: tc.Name, Args: argumentsMap(tc.Arguments)})
			}
			push("model", parts...)
		case RoleTool:
			push("user", genai.FunctionResponse{Name: msg.Name, Response: functionResponse(msg.Content)})
		default:
			if msg.Content != "" {
				push("user", genai.Text(msg.Content))
			}
		}
	}

	return strings.Join(systemParts, "\n\n"), out
}

func functionResponse(content string) map[string]any {
	response := map[string]any{}
	if err := json.Unmarshal([]byte(content), &response); err != nil || response == nil {
		return map[string]any{"raw_content": content}
	}
	return response
}

func toFunctionDeclarations(tools []api.Tool) []*genai.FunctionDeclaration {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
			Required:   tool.Function.Parameters.Required,
		}
		for name, prop := range tool.Function.Parameters.Properties {
			schema.Properties[name] = toGeminiSchema(prop)
		}
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Function.Name,
			Description: tool.Function.Description,
			Parameters:  schema,
		})
	}
	return declarations
}

func toGeminiSchema(prop api.ToolProperty) *genai.Schema {
	schema := &genai.Schema{Description: prop.Description, Type: genai.TypeString}
	if len(prop.Type) == 0 {
		return schema
	}

	switch prop.Type[0] {
	case "integer":
		schema.Type = genai.TypeInteger
	case "number":
		schema.Type = genai.TypeNumber
	case "boolean":
		schema.Type = genai.TypeBoolean
	case "array":
		schema.Type = genai.TypeArray
		schema.Items = &genai.Schema{Type: genai.TypeString}
	}
	return schema
}
