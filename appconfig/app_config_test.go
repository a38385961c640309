package appconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppConfig_Durations(t *testing.T) {
	empty := &AppConfig{}
	assert.Equal(t, 60*time.Second, empty.AgentTimeout())
	assert.Equal(t, 2*time.Second, empty.AgentBackoffBase())
	assert.Equal(t, time.Hour, empty.RateLimitWindow())

	cfg := &AppConfig{AgentTimeoutSeconds: 5, AgentBackoffBaseMs: 250, RateLimitWindowMinutes: 15}
	assert.Equal(t, 5*time.Second, cfg.AgentTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.AgentBackoffBase())
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow())
}
