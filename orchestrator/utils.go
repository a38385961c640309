package orchestrator

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

func getCurrentTimeMs() int64 {
	return time.Now().UnixMilli()
}

// newToolCallID builds ids of the form <tool name>_<8 hex chars>.
func newToolCallID(toolName string) string {
	return toolName + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func nonBlankMessages(messages []IncomingMessage) []IncomingMessage {
	return lo.Filter(messages, func(msg IncomingMessage, _ int) bool {
		return strings.TrimSpace(msg.Content) != ""
	})
}
