package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SaiNageswarS/travel-boot/orchestrator"
)

// SSEProgressReporter streams orchestration events to the client as server-sent events.
type SSEProgressReporter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func NewSSEProgressReporter(w http.ResponseWriter) (*SSEProgressReporter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEProgressReporter{w: w, flusher: flusher}, true
}

func (r *SSEProgressReporter) Send(event *orchestrator.StreamChunk) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(r.w, "event: %s\ndata: %s\n\n", eventName(event), data); err != nil {
		return err
	}
	r.flusher.Flush()
	return nil
}

func eventName(event *orchestrator.StreamChunk) string {
	switch {
	case event.Progress != nil:
		return "progress"
	case event.ToolResult != nil:
		return "tool_result"
	case event.Error != nil:
		return "error"
	case event.Complete != nil:
		return "complete"
	default:
		return "message"
	}
}
