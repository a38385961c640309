package orchestrator

import (
	"encoding/json"

	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/tools"
)

const (
	ReasonDatesNeeded                  = "dates_needed"
	ReasonFlightAndAccommodationNeeded = "flight_and_accommodation_needed"
)

var pendingMessages = map[string]string{
	ReasonDatesNeeded:                  "To find accommodation, I need the check-in and check-out dates for your stay.",
	ReasonFlightAndAccommodationNeeded: "Please complete flight and accommodation booking before planning sightseeing.",
}

// GatingState records which prerequisite agents have already succeeded in a
// conversation. Flags only ever move from false to true.
type GatingState struct {
	FlightInfoProvided  bool
	AccommodationBooked bool
}

// DeriveGatingState scans tool result turns. A result counts when it is a JSON
// object without an error and is not a deferral.
func DeriveGatingState(turns []memory.Turn) GatingState {
	var state GatingState
	for _, turn := range turns {
		if turn.Role != memory.RoleTool {
			continue
		}
		var content map[string]any
		if err := json.Unmarshal([]byte(turn.Content), &content); err != nil {
			continue
		}
		state.Record(turn.ToolName, content)
	}
	return state
}

// Record updates the state with the outcome of a tool call.
func (s *GatingState) Record(toolName string, result map[string]any) {
	if !isSuccessful(result) {
		return
	}
	switch toolName {
	case tools.FlightInformation:
		s.FlightInfoProvided = true
	case tools.Accommodation:
		s.AccommodationBooked = true
	}
}

// Deferral returns a pending result when the call must wait on a prerequisite,
// or nil when it may run.
func (s GatingState) Deferral(toolName string, args tools.Arguments) map[string]any {
	switch toolName {
	case tools.Accommodation:
		if s.FlightInfoProvided || args.Accommodation().HasDates() {
			return nil
		}
		return pending(ReasonDatesNeeded)
	case tools.Sightseeing:
		if s.FlightInfoProvided && s.AccommodationBooked {
			return nil
		}
		return pending(ReasonFlightAndAccommodationNeeded)
	default:
		return nil
	}
}

func pending(reason string) map[string]any {
	return map[string]any{
		"status":  "pending",
		"reason":  reason,
		"message": pendingMessages[reason],
	}
}

func isSuccessful(result map[string]any) bool {
	if result == nil {
		return false
	}
	if _, failed := result["error"]; failed {
		return false
	}
	return result["status"] != "pending"
}
