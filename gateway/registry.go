package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SaiNageswarS/travel-boot/tools"
)

var ErrUnknownAgent = errors.New("unknown agent")

// AgentDescriptor binds a tool name to the downstream agent serving it.
type AgentDescriptor struct {
	ToolName    string
	DisplayName string
	Endpoint    string
	Method      string
}

type Registry map[string]AgentDescriptor

func NewRegistry(agents ...AgentDescriptor) Registry {
	r := make(Registry, len(agents))
	for _, a := range agents {
		r[a.ToolName] = a
	}
	return r
}

// DefaultRegistry wires the three travel agents. Flights are searched with
// POST, the other agents take query parameters.
func DefaultRegistry(flightURL, accommodationURL, sightseeingURL string) Registry {
	return NewRegistry(
		AgentDescriptor{
			ToolName:    tools.FlightInformation,
			DisplayName: "Alice (Flight Agent)",
			Endpoint:    flightURL,
			Method:      http.MethodPost,
		},
		AgentDescriptor{
			ToolName:    tools.Accommodation,
			DisplayName: "Bob (Accomodation Agent)",
			Endpoint:    accommodationURL,
			Method:      http.MethodGet,
		},
		AgentDescriptor{
			ToolName:    tools.Sightseeing,
			DisplayName: "Charlie (Sightseeing Agent)",
			Endpoint:    sightseeingURL,
			Method:      http.MethodGet,
		},
	)
}

func (r Registry) Resolve(toolName string) (AgentDescriptor, error) {
	agent, ok := r[toolName]
	if !ok {
		return AgentDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownAgent, toolName)
	}
	return agent, nil
}

// DisplayName falls back to the tool name for unregistered tools.
func (r Registry) DisplayName(toolName string) string {
	if agent, ok := r[toolName]; ok {
		return agent.DisplayName
	}
	return toolName
}
