package orchestrator

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

type Stage string

const (
	StageToolExecutionStarting  Stage = "tool_execution_starting"
	StageToolExecutionDeferred  Stage = "tool_execution_deferred"
	StageToolExecutionCompleted Stage = "tool_execution_completed"
	StageToolExecutionFailed    Stage = "tool_execution_failed"
	StageAnswerGeneration       Stage = "answer_generation"
)

const ErrorCodeInferenceFailed = "inference_failed"

type ProgressUpdate struct {
	Stage     Stage  `json:"stage"`
	ToolName  string `json:"toolName,omitempty"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type StreamError struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}

// StreamChunk is one progress event. Exactly one field is set.
type StreamChunk struct {
	Progress   *ProgressUpdate `json:"progress,omitempty"`
	ToolResult *ToolResult     `json:"toolResult,omitempty"`
	Error      *StreamError    `json:"error,omitempty"`
	Complete   *TravelResponse `json:"complete,omitempty"`
}

// ProgressReporter is an interface for reporting orchestration progress
type ProgressReporter interface {
	Send(event *StreamChunk) error
}

// NoOpProgressReporter implements ProgressReporter with no-op operations
type NoOpProgressReporter struct{}

func (r *NoOpProgressReporter) Send(event *StreamChunk) error {
	return nil
}

// LogProgressReporter writes progress to the service log.
type LogProgressReporter struct {
	ConversationID string
}

func (r *LogProgressReporter) Send(event *StreamChunk) error {
	switch {
	case event.Progress != nil:
		logger.Info("Progress",
			zap.String("conversationId", r.ConversationID),
			zap.String("stage", string(event.Progress.Stage)),
			zap.String("tool", event.Progress.ToolName),
			zap.String("message", event.Progress.Message))
	case event.Error != nil:
		logger.Error("Progress error",
			zap.String("conversationId", r.ConversationID),
			zap.String("code", event.Error.ErrorCode),
			zap.String("message", event.Error.ErrorMessage))
	}
	return nil
}

func NewProgressUpdate(stage Stage, toolName, message string) *StreamChunk {
	return &StreamChunk{
		Progress: &ProgressUpdate{
			Stage:     stage,
			ToolName:  toolName,
			Message:   message,
			Timestamp: time.Now().UnixMilli(),
		},
	}
}

func NewToolExecutionResult(result ToolResult) *StreamChunk {
	return &StreamChunk{ToolResult: &result}
}

func NewStreamComplete(response *TravelResponse) *StreamChunk {
	return &StreamChunk{Complete: response}
}

func NewStreamError(message, code string) *StreamChunk {
	return &StreamChunk{Error: &StreamError{ErrorMessage: message, ErrorCode: code}}
}
