package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SaiNageswarS/travel-boot/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() RetryPolicy {
	policy := DefaultRetryPolicy()
	policy.BaseDelay = time.Millisecond
	return policy
}

func newTestGateway(t *testing.T, handler http.HandlerFunc, opts ...Option) *Gateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	registry := DefaultRegistry(server.URL+"/flights", server.URL+"/hotels", server.URL+"/sights")
	return New(registry, append([]Option{WithRetryPolicy(fastPolicy())}, opts...)...)
}

func TestCallAgent_FlightIsPostedAsJSON(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/flights", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "LOS", body["originLocationCode"])
		assert.Equal(t, float64(2), body["adults"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"top_flights":[{"airline":"BA"}],"agent":"spoofed"}`))
	})

	result := g.CallAgent(context.Background(), tools.FlightInformation, map[string]any{
		"originLocationCode": "LOS",
		"adults":             2,
	})

	assert.False(t, result.IsError())
	assert.Equal(t, "Alice (Flight Agent)", result["agent"])
	assert.NotNil(t, result["top_flights"])
}

func TestCallAgent_AccommodationUsesQueryString(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/hotels", r.URL.Path)
		assert.Equal(t, "London", r.URL.Query().Get("destination"))
		assert.Equal(t, "2026-06-01", r.URL.Query().Get("checkInDate"))
		w.Write([]byte(`{"hotels":[]}`))
	})

	result := g.CallAgent(context.Background(), tools.Accommodation, map[string]any{
		"destination": "London",
		"checkInDate": "2026-06-01",
	})

	assert.False(t, result.IsError())
	assert.Equal(t, "Bob (Accomodation Agent)", result["agent"])
}

func TestCallAgent_RetriesBadGatewayThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"sights":["Tower Bridge"]}`))
	})

	result := g.CallAgent(context.Background(), tools.Sightseeing, map[string]any{"destination": "London"})

	assert.Equal(t, int32(3), calls.Load())
	assert.False(t, result.IsError())
	assert.Equal(t, []any{"Tower Bridge"}, result["sights"])
}

func TestCallAgent_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"upstream down"}`))
	})

	result := g.CallAgent(context.Background(), tools.Sightseeing, map[string]any{"destination": "London"})

	assert.Equal(t, int32(3), calls.Load())
	require.True(t, result.IsError())
	assert.Equal(t, "Failed to get data from Charlie (Sightseeing Agent). API returned status: 502", result["error"])
	assert.Equal(t, map[string]any{"message": "upstream down"}, result["details"])
}

func TestCallAgent_OtherStatusesAreNotRetried(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		details any
	}{
		{"server error", http.StatusInternalServerError, "boom", "boom"},
		{"bad request", http.StatusBadRequest, `{"error":"bad"}`, map[string]any{"error": "bad"}},
		{"empty body", http.StatusServiceUnavailable, "", noDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			result := g.CallAgent(context.Background(), tools.Accommodation, map[string]any{})

			assert.Equal(t, int32(1), calls.Load())
			require.True(t, result.IsError())
			assert.Equal(t, tt.details, result["details"])
		})
	}
}

func TestCallAgent_TimeoutIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, WithTimeout(20*time.Millisecond))

	result := g.CallAgent(context.Background(), tools.FlightInformation, map[string]any{})

	assert.Equal(t, int32(1), calls.Load())
	require.True(t, result.IsError())
	assert.Equal(t, "Failed to get data from Alice (Flight Agent)", result["error"])
	assert.Equal(t, noDetails, result["details"])
	assert.NotEmpty(t, result["message"])
}

func TestCallAgent_NonObjectBodies(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sights" {
			w.Write([]byte(`["a","b"]`))
			return
		}
		w.Write([]byte("plain text"))
	})

	list := g.CallAgent(context.Background(), tools.Sightseeing, nil)
	assert.Equal(t, []any{"a", "b"}, list["data"])

	text := g.CallAgent(context.Background(), tools.Accommodation, nil)
	assert.Equal(t, "plain text", text["raw_content"])
	assert.False(t, text.IsError())
}

func TestCallAgent_UnknownTool(t *testing.T) {
	g := New(NewRegistry())
	result := g.CallAgent(context.Background(), "get_weather", nil)
	assert.Equal(t, "Unknown tool: get_weather", result["error"])
	assert.Equal(t, "get_weather", g.DisplayName("get_weather"))
}

func TestRetryPolicy_BackOffSchedule(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
	b := policy.backOff(context.Background())

	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 4*time.Second, b.NextBackOff())
	assert.Equal(t, time.Duration(-1), b.NextBackOff())
}
