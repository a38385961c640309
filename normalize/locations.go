package normalize

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed airports.yaml
var airportsYAML []byte

type Airport struct {
	Code    string `yaml:"iata"`
	Name    string `yaml:"name"`
	City    string `yaml:"city"`
	Country string `yaml:"country"`
}

func LoadAirports(data []byte) ([]Airport, error) {
	var airports []Airport
	if err := yaml.Unmarshal(data, &airports); err != nil {
		return nil, fmt.Errorf("error parsing airports: %w", err)
	}
	return airports, nil
}

// LocationResolver maps place names to IATA airport codes.
type LocationResolver struct {
	airports []Airport
}

func NewLocationResolver(airports []Airport) *LocationResolver {
	return &LocationResolver{airports: airports}
}

// Resolve returns the airport code for input. Three character inputs are
// treated as codes already and returned unchanged. Otherwise an exact city
// match wins over a substring match on the airport name, both case-insensitive.
func (r *LocationResolver) Resolve(input string) (string, bool) {
	if utf8.RuneCountInString(input) == 3 {
		return input, true
	}

	query := strings.ToLower(strings.TrimSpace(input))
	if query == "" {
		return "", false
	}

	if airport, ok := lo.Find(r.airports, func(a Airport) bool {
		return strings.ToLower(a.City) == query
	}); ok {
		return airport.Code, true
	}

	if airport, ok := lo.Find(r.airports, func(a Airport) bool {
		return strings.Contains(strings.ToLower(a.Name), query)
	}); ok {
		return airport.Code, true
	}

	return "", false
}

var (
	defaultResolver     *LocationResolver
	defaultResolverOnce sync.Once
)

// DefaultLocationResolver is backed by the embedded airport table.
func DefaultLocationResolver() *LocationResolver {
	defaultResolverOnce.Do(func() {
		airports, err := LoadAirports(airportsYAML)
		if err != nil {
			logger.Fatal("Failed to load embedded airports", zap.Error(err))
		}
		defaultResolver = NewLocationResolver(airports)
	})
	return defaultResolver
}

func ResolveLocation(input string) (string, bool) {
	return DefaultLocationResolver().Resolve(input)
}
