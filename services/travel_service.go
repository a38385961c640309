package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/orchestrator"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Executor runs one chat request through the tool-call orchestrator.
type Executor interface {
	Execute(ctx context.Context, reporter orchestrator.ProgressReporter, req *orchestrator.TravelRequest) (*orchestrator.TravelResponse, error)
}

type TravelService struct {
	executor      Executor
	conversations memory.ConversationStore
}

func ProvideTravelService(executor Executor, conversations memory.ConversationStore) *TravelService {
	return &TravelService{
		executor:      executor,
		conversations: conversations,
	}
}

type ConversationSummary struct {
	ConversationID string `json:"conversationId"`
	Title          string `json:"title"`
	UpdatedOn      int64  `json:"updatedOn"`
}

type ConversationMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type ConversationDetail struct {
	ConversationID string                `json:"conversationId"`
	Title          string                `json:"title"`
	Messages       []ConversationMessage `json:"messages"`
}

func (s *TravelService) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	response, err := s.executor.Execute(r.Context(), &orchestrator.LogProgressReporter{ConversationID: req.ConversationID}, req)
	if err != nil {
		status, message := orchestrationFailure(err)
		logger.Error("Travel request failed", zap.String("userId", req.UserID), zap.Int("status", status), zap.Error(err))
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Stream runs the same request as Chat but reports progress as server-sent events.
// The stream ends with a complete or error event.
func (s *TravelService) Stream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	reporter, ok := NewSSEProgressReporter(w)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	_, err := s.executor.Execute(r.Context(), reporter, req)
	if err == nil {
		return
	}

	status, message := orchestrationFailure(err)
	logger.Error("Streaming travel request failed", zap.String("userId", req.UserID), zap.Int("status", status), zap.Error(err))
	if errors.Is(err, orchestrator.ErrModelUnavailable) {
		// the orchestrator already reported this one
		return
	}
	if sendErr := reporter.Send(orchestrator.NewStreamError(message, failureCode(err))); sendErr != nil {
		logger.Error("Failed to send stream error", zap.Error(sendErr))
	}
}

func (s *TravelService) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	conversations, err := s.conversations.ListByUser(r.Context(), userID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch chat history")
		return
	}

	writeJSON(w, http.StatusOK, lo.Map(conversations, func(c memory.Conversation, _ int) ConversationSummary {
		return ConversationSummary{ConversationID: c.ID, Title: c.Title, UpdatedOn: c.UpdatedOn}
	}))
}

// GetConversation returns the user and assistant turns of one conversation. Tool
// traffic and assistant turns without text are left out.
func (s *TravelService) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	conversationID := r.PathValue("id")

	conversation, err := s.conversations.FindOne(r.Context(), conversationID, userID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	if conversation == nil {
		writeMessage(w, http.StatusNotFound, "Conversation not found")
		return
	}

	messages := lo.FilterMap(conversation.Turns, func(t memory.Turn, _ int) (ConversationMessage, bool) {
		if t.Role == memory.RoleTool || t.Content == "" {
			return ConversationMessage{}, false
		}
		return ConversationMessage{Role: string(t.Role), Content: t.Content, Timestamp: t.Timestamp}, true
	})

	writeJSON(w, http.StatusOK, ConversationDetail{
		ConversationID: conversation.ID,
		Title:          conversation.Title,
		Messages:       messages,
	})
}

func (s *TravelService) readRequest(w http.ResponseWriter, r *http.Request) (*orchestrator.TravelRequest, bool) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No user data")
		return nil, false
	}

	var req orchestrator.TravelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "Messages must be a non-empty array")
		return nil, false
	}

	req.UserID = userID
	return &req, true
}
