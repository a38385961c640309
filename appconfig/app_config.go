package appconfig

import (
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	Tenant   string `env:"TENANT" ini:"tenant"`
	HTTPPort string `env:"HTTP-PORT" ini:"http_port"`
	GRPCPort string `env:"GRPC-PORT" ini:"grpc_port"`

	LLMProvider string `env:"LLM-PROVIDER" ini:"llm_provider"`
	LLMModel    string `env:"LLM-MODEL" ini:"llm_model"`

	FlightAgentURL        string `env:"FLIGHT-AGENT-URL" ini:"flight_agent_url"`
	AccommodationAgentURL string `env:"ACCOMMODATION-AGENT-URL" ini:"accommodation_agent_url"`
	SightseeingAgentURL   string `env:"SIGHTSEEING-AGENT-URL" ini:"sightseeing_agent_url"`

	AgentTimeoutSeconds int `env:"AGENT-TIMEOUT-SECONDS" ini:"agent_timeout_seconds"`
	AgentMaxAttempts    int `env:"AGENT-MAX-ATTEMPTS" ini:"agent_max_attempts"`
	AgentBackoffBaseMs  int `env:"AGENT-BACKOFF-BASE-MS" ini:"agent_backoff_base_ms"`

	TitleMaxLength      int `env:"TITLE-MAX-LENGTH" ini:"title_max_length"`
	MaxContextUserTurns int `env:"MAX-CONTEXT-USER-TURNS" ini:"max_context_user_turns"`

	RateLimitRequests      int `env:"RATE-LIMIT-REQUESTS" ini:"rate_limit_requests"`
	RateLimitWindowMinutes int `env:"RATE-LIMIT-WINDOW-MINUTES" ini:"rate_limit_window_minutes"`

	JWTSecret string `env:"JWT-SECRET" ini:"jwt_secret"`
}

func (c *AppConfig) AgentTimeout() time.Duration {
	if c.AgentTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.AgentTimeoutSeconds) * time.Second
}

func (c *AppConfig) AgentBackoffBase() time.Duration {
	if c.AgentBackoffBaseMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.AgentBackoffBaseMs) * time.Millisecond
}

func (c *AppConfig) RateLimitWindow() time.Duration {
	if c.RateLimitWindowMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.RateLimitWindowMinutes) * time.Minute
}
