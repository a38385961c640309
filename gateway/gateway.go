package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const noDetails = "No details provided by the API."

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AgentResult is the JSON object returned for a tool call. It always carries
// the agent display name, and an "error" key when the call failed.
type AgentResult map[string]any

func (r AgentResult) IsError() bool {
	_, ok := r["error"]
	return ok
}

type Gateway struct {
	registry Registry
	client   HTTPClient
	timeout  time.Duration
	policy   RetryPolicy
}

type Option func(*Gateway)

func WithHTTPClient(client HTTPClient) Option {
	return func(g *Gateway) { g.client = client }
}

// WithTimeout bounds every single attempt, not the whole retry sequence.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) { g.timeout = timeout }
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(g *Gateway) { g.policy = policy }
}

func New(registry Registry, opts ...Option) *Gateway {
	g := &Gateway{
		registry: registry,
		client:   &http.Client{},
		timeout:  60 * time.Second,
		policy:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) DisplayName(toolName string) string {
	return g.registry.DisplayName(toolName)
}

type agentResponse struct {
	status int
	body   []byte
}

// CallAgent sends params to the agent registered for toolName. Failures are
// reported inside the result; it never returns an error.
func (g *Gateway) CallAgent(ctx context.Context, toolName string, params map[string]any) AgentResult {
	agent, err := g.registry.Resolve(toolName)
	if err != nil {
		return AgentResult{"agent": toolName, "error": "Unknown tool: " + toolName}
	}

	var last *agentResponse
	attempt := 0
	operation := func() error {
		attempt++
		resp, err := g.send(ctx, agent, params)
		if err != nil {
			return backoff.Permanent(err)
		}
		last = resp
		if g.policy.retryable(resp.status) {
			return errRetryableStatus
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Info("Retrying agent call",
			zap.String("agent", agent.DisplayName),
			zap.Int("attempt", attempt),
			zap.Int("status", last.status),
			zap.Duration("backoff", wait))
	}

	err = backoff.RetryNotify(operation, g.policy.backOff(ctx), notify)
	if err != nil && !errors.Is(err, errRetryableStatus) {
		logger.Error("Agent call failed",
			zap.String("agent", agent.DisplayName),
			zap.Int("attempts", attempt),
			zap.Error(err))
		return AgentResult{
			"agent":   agent.DisplayName,
			"error":   "Failed to get data from " + agent.DisplayName,
			"message": err.Error(),
			"details": noDetails,
		}
	}

	return interpret(agent, last)
}

func (g *Gateway) send(ctx context.Context, agent AgentDescriptor, params map[string]any) (*agentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := buildRequest(ctx, agent, params)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	return &agentResponse{status: resp.StatusCode, body: body}, nil
}

func buildRequest(ctx context.Context, agent AgentDescriptor, params map[string]any) (*http.Request, error) {
	if agent.Method == http.MethodGet {
		endpoint, err := url.Parse(agent.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint for %s: %w", agent.DisplayName, err)
		}
		query := endpoint.Query()
		for k, v := range params {
			query.Set(k, fmt.Sprint(v))
		}
		endpoint.RawQuery = query.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, agent.Method, agent.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func interpret(agent AgentDescriptor, resp *agentResponse) AgentResult {
	if resp.status != http.StatusOK {
		return AgentResult{
			"agent":   agent.DisplayName,
			"error":   fmt.Sprintf("Failed to get data from %s. API returned status: %d", agent.DisplayName, resp.status),
			"details": errorDetails(resp.body),
		}
	}

	result := AgentResult{}
	var decoded any
	if err := json.Unmarshal(resp.body, &decoded); err != nil {
		result["raw_content"] = string(resp.body)
	} else if object, ok := decoded.(map[string]any); ok {
		for k, v := range object {
			result[k] = v
		}
	} else {
		result["data"] = decoded
	}

	result["agent"] = agent.DisplayName
	return result
}

func errorDetails(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return noDetails
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	return decoded
}
