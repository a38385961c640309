package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatBody = `{"conversationId":"c1","messages":[{"role":"user","content":"Flights from Lagos to London"}]}`

func TestTravelService_Chat(t *testing.T) {
	ts := newTestServer(t, 10)
	ts.executor.response = &orchestrator.TravelResponse{Reply: "Here are your flights", ConversationID: "c1", ToolResults: []orchestrator.ToolResult{}}

	rec := ts.do(http.MethodPost, "/api/v1/travel", chatBody, ts.token(t, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var response orchestrator.TravelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Here are your flights", response.Reply)
	assert.Equal(t, "c1", response.ConversationID)

	require.Len(t, ts.executor.requests, 1)
	req := ts.executor.requests[0]
	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, "c1", req.ConversationID)
	assert.Equal(t, "Flights from Lagos to London", req.Messages[0].Content)
}

func TestTravelService_ChatRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, 10)
	token := ts.token(t, "user-1")

	tests := []struct {
		name  string
		body  string
		token string
		code  int
	}{
		{"no token", chatBody, "", http.StatusUnauthorized},
		{"bad json", `{"messages":`, token, http.StatusBadRequest},
		{"no messages", `{"messages":[]}`, token, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPost, "/api/v1/travel", tt.body, tt.token)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
	assert.Empty(t, ts.executor.requests)
}

func TestTravelService_ChatErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"empty input", orchestrator.ErrEmptyInput, http.StatusBadRequest},
		{"malformed history", fmt.Errorf("%w: dangling call", orchestrator.ErrMalformedHistory), http.StatusConflict},
		{"model unavailable", fmt.Errorf("%w: boom", orchestrator.ErrModelUnavailable), http.StatusBadGateway},
		{"persistence", fmt.Errorf("%w: disk full", orchestrator.ErrPersistence), http.StatusInternalServerError},
		{"anything else", errStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, 10)
			ts.executor.err = tt.err

			rec := ts.do(http.MethodPost, "/api/v1/travel", chatBody, ts.token(t, "user-1"))
			assert.Equal(t, tt.code, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body["error"], tt.err.Error())
		})
	}
}

func TestTravelService_RateLimited(t *testing.T) {
	ts := newTestServer(t, 2)
	ts.executor.response = &orchestrator.TravelResponse{Reply: "ok"}
	token := ts.token(t, "user-1")

	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/travel", chatBody, token).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/api/v1/travel", chatBody, token).Code)

	rec := ts.do(http.MethodPost, "/api/v1/travel", chatBody, token)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")

	// history is not rate limited
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/v1/conversations", "", token).Code)
}

func TestTravelService_Stream(t *testing.T) {
	ts := newTestServer(t, 10)
	response := &orchestrator.TravelResponse{Reply: "done", ConversationID: "c1"}
	ts.executor.events = []*orchestrator.StreamChunk{
		orchestrator.NewProgressUpdate(orchestrator.StageToolExecutionStarting, "get_flight_information", "Searching flights"),
		orchestrator.NewStreamComplete(response),
	}
	ts.executor.response = response

	rec := ts.do(http.MethodPost, "/api/v1/travel/stream", chatBody, ts.token(t, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	progressAt := strings.Index(body, "event: progress\n")
	completeAt := strings.Index(body, "event: complete\n")
	require.GreaterOrEqual(t, progressAt, 0)
	require.Greater(t, completeAt, progressAt)
	assert.Contains(t, body, `"reply":"done"`)
}

func TestTravelService_StreamReportsFailure(t *testing.T) {
	ts := newTestServer(t, 10)
	ts.executor.err = fmt.Errorf("%w: disk full", orchestrator.ErrPersistence)

	rec := ts.do(http.MethodPost, "/api/v1/travel/stream", chatBody, ts.token(t, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, `"errorCode":"persistence_failed"`)
	assert.NotContains(t, body, "disk full")
}

func TestTravelService_Conversations(t *testing.T) {
	ts := newTestServer(t, 10)

	older := memory.NewConversation("c-old", "user-1", time.UnixMilli(1_000))
	older.Title = "Weekend in Paris"

	newer := memory.NewConversation("c-new", "user-1", time.UnixMilli(2_000))
	newer.Title = "Lagos to London"
	newer.AddUserTurn("Flights from Lagos to London", time.UnixMilli(3_000))
	newer.AddAssistantTurn("", []memory.ToolCallRecord{{ID: "get_flight_information_1", Name: "get_flight_information", Arguments: "{}"}}, time.UnixMilli(3_100))
	newer.AddToolResultTurn("get_flight_information_1", "get_flight_information", `{"top_flights":[]}`, time.UnixMilli(3_200))
	newer.AddAssistantTurn("No flights found.", nil, time.UnixMilli(3_300))

	foreign := memory.NewConversation("c-new", "user-2", time.UnixMilli(5_000))

	for _, c := range []*memory.Conversation{older, newer, foreign} {
		require.NoError(t, ts.conversations.Save(t.Context(), c))
	}
	token := ts.token(t, "user-1")

	t.Run("list", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/v1/conversations", "", token)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []ConversationSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 2)
		assert.Equal(t, ConversationSummary{ConversationID: "c-new", Title: "Lagos to London", UpdatedOn: 3_300}, list[0])
		assert.Equal(t, "c-old", list[1].ConversationID)
	})

	t.Run("detail omits tool traffic", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/v1/conversations/c-new", "", token)
		require.Equal(t, http.StatusOK, rec.Code)

		var detail ConversationDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		assert.Equal(t, "c-new", detail.ConversationID)
		assert.Equal(t, []ConversationMessage{
			{Role: "user", Content: "Flights from Lagos to London", Timestamp: 3_000},
			{Role: "assistant", Content: "No flights found.", Timestamp: 3_300},
		}, detail.Messages)
	})

	t.Run("other users conversation", func(t *testing.T) {
		rec := ts.do(http.MethodGet, "/api/v1/conversations/c-old", "", ts.token(t, "user-2"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list failure", func(t *testing.T) {
		ts.conversations.listErr = errStore
		defer func() { ts.conversations.listErr = nil }()

		rec := ts.do(http.MethodGet, "/api/v1/conversations", "", token)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
