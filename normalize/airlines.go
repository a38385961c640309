package normalize

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed airlines.yaml
var airlinesYAML []byte

type AirlineDirectory struct {
	names map[string]string
}

func NewAirlineDirectory(names map[string]string) *AirlineDirectory {
	normalized := make(map[string]string, len(names))
	for code, name := range names {
		normalized[strings.ToUpper(code)] = name
	}
	return &AirlineDirectory{names: normalized}
}

// FullName returns the carrier name for a two letter code, or the code itself when unknown.
func (d *AirlineDirectory) FullName(code string) string {
	if name, ok := d.names[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

var (
	defaultAirlines     *AirlineDirectory
	defaultAirlinesOnce sync.Once
)

func DefaultAirlineDirectory() *AirlineDirectory {
	defaultAirlinesOnce.Do(func() {
		names := map[string]string{}
		if err := yaml.Unmarshal(airlinesYAML, &names); err != nil {
			logger.Fatal("Failed to load embedded airlines", zap.Error(err))
		}
		defaultAirlines = NewAirlineDirectory(names)
	})
	return defaultAirlines
}
