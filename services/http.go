package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/travel-boot/orchestrator"
	"go.uber.org/zap"
)

const maxRequestBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, into any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(into)
}

// orchestrationFailure maps an Execute error to a status and a client-safe message.
func orchestrationFailure(err error) (int, string) {
	switch {
	case errors.Is(err, orchestrator.ErrEmptyInput):
		return http.StatusBadRequest, "No valid messages found"
	case errors.Is(err, orchestrator.ErrMalformedHistory):
		return http.StatusConflict, "Conversation history is inconsistent"
	case errors.Is(err, orchestrator.ErrModelUnavailable):
		return http.StatusBadGateway, "The assistant is unavailable right now. Please try again."
	default:
		return http.StatusInternalServerError, "An error occurred while processing your request"
	}
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, orchestrator.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, orchestrator.ErrMalformedHistory):
		return "malformed_history"
	case errors.Is(err, orchestrator.ErrModelUnavailable):
		return orchestrator.ErrorCodeInferenceFailed
	case errors.Is(err, orchestrator.ErrPersistence):
		return "persistence_failed"
	default:
		return "internal"
	}
}
