package orchestrator

import (
	"testing"

	"github.com/SaiNageswarS/travel-boot/memory"
	"github.com/SaiNageswarS/travel-boot/tools"
	"github.com/stretchr/testify/assert"
)

func toolTurn(name, content string) memory.Turn {
	return memory.Turn{Role: memory.RoleTool, ToolName: name, ToolCallID: name + "_00000000", Content: content}
}

func TestDeriveGatingState(t *testing.T) {
	tests := []struct {
		name     string
		turns    []memory.Turn
		expected GatingState
	}{
		{"empty", nil, GatingState{}},
		{
			name:     "successful flight",
			turns:    []memory.Turn{toolTurn(tools.FlightInformation, `{"agent":"Alice","top_flights":[]}`)},
			expected: GatingState{FlightInfoProvided: true},
		},
		{
			name:     "failed flight",
			turns:    []memory.Turn{toolTurn(tools.FlightInformation, `{"agent":"Alice","error":"boom"}`)},
			expected: GatingState{},
		},
		{
			name:     "pending accommodation does not count",
			turns:    []memory.Turn{toolTurn(tools.Accommodation, `{"status":"pending","reason":"dates_needed"}`)},
			expected: GatingState{},
		},
		{
			name: "failure after success keeps flag",
			turns: []memory.Turn{
				toolTurn(tools.FlightInformation, `{"agent":"Alice"}`),
				toolTurn(tools.FlightInformation, `{"error":"later failure"}`),
				toolTurn(tools.Accommodation, `{"agent":"Bob","hotels":[]}`),
			},
			expected: GatingState{FlightInfoProvided: true, AccommodationBooked: true},
		},
		{
			name: "non-json and user turns are ignored",
			turns: []memory.Turn{
				{Role: memory.RoleUser, Content: `{"agent":"Alice"}`, ToolName: tools.FlightInformation},
				toolTurn(tools.Accommodation, "Bob found hotels"),
			},
			expected: GatingState{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveGatingState(tt.turns))
		})
	}
}

func TestGatingState_Deferral(t *testing.T) {
	withDates := tools.Arguments{"destination": "London", "checkInDate": "2026-06-01", "checkOutDate": "2026-06-05"}
	destinationOnly := tools.Arguments{"destination": "London"}

	tests := []struct {
		name   string
		state  GatingState
		tool   string
		args   tools.Arguments
		reason string
	}{
		{"flight always runs", GatingState{}, tools.FlightInformation, tools.Arguments{}, ""},
		{"accommodation with dates", GatingState{}, tools.Accommodation, withDates, ""},
		{"accommodation after flight", GatingState{FlightInfoProvided: true}, tools.Accommodation, destinationOnly, ""},
		{"accommodation without dates", GatingState{}, tools.Accommodation, destinationOnly, ReasonDatesNeeded},
		{"accommodation without anything", GatingState{}, tools.Accommodation, tools.Arguments{}, ReasonDatesNeeded},
		{"accommodation with only check-in", GatingState{}, tools.Accommodation, tools.Arguments{"destination": "London", "checkInDate": "2026-06-01"}, ReasonDatesNeeded},
		{"sightseeing without prerequisites", GatingState{}, tools.Sightseeing, destinationOnly, ReasonFlightAndAccommodationNeeded},
		{"sightseeing with flight only", GatingState{FlightInfoProvided: true}, tools.Sightseeing, destinationOnly, ReasonFlightAndAccommodationNeeded},
		{"sightseeing with both", GatingState{FlightInfoProvided: true, AccommodationBooked: true}, tools.Sightseeing, destinationOnly, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deferral := tt.state.Deferral(tt.tool, tt.args)
			if tt.reason == "" {
				assert.Nil(t, deferral)
				return
			}
			assert.Equal(t, "pending", deferral["status"])
			assert.Equal(t, tt.reason, deferral["reason"])
			assert.NotEmpty(t, deferral["message"])
		})
	}
}

func TestGatingState_Record(t *testing.T) {
	var state GatingState
	state.Record(tools.Sightseeing, map[string]any{"agent": "Charlie"})
	assert.Equal(t, GatingState{}, state)

	state.Record(tools.Accommodation, map[string]any{"agent": "Bob"})
	assert.True(t, state.AccommodationBooked)

	state.Record(tools.Accommodation, map[string]any{"error": "x"})
	assert.True(t, state.AccommodationBooked)
}
