package tools

import (
	"strings"

	"github.com/SaiNageswarS/travel-boot/normalize"
)

// MappingResult holds either the agent request parameters or a validation
// message for the model, never both.
type MappingResult struct {
	Params map[string]any
	Error  string
}

func (r MappingResult) Failed() bool {
	return r.Error != ""
}

// failed joins problems with ". ", trimming the trailing period of every
// problem but the last so sentences never end in "..".
func failed(problems []string) MappingResult {
	joined := make([]string, len(problems))
	for i, problem := range problems {
		if i < len(problems)-1 {
			problem = strings.TrimRight(problem, ".")
		}
		joined[i] = problem
	}
	return MappingResult{Error: strings.Join(joined, ". ")}
}

type DateNormalizer interface {
	Normalize(input string) (string, error)
}

type LocationResolver interface {
	Resolve(input string) (string, bool)
}

// Mapper translates model arguments into the request shape each agent expects.
type Mapper struct {
	dates     DateNormalizer
	locations LocationResolver
}

func NewMapper(dates DateNormalizer, locations LocationResolver) *Mapper {
	return &Mapper{dates: dates, locations: locations}
}

func DefaultMapper() *Mapper {
	return NewMapper(normalize.NewDateNormalizer(nil), normalize.DefaultLocationResolver())
}

func (m *Mapper) Map(toolName string, args Arguments) MappingResult {
	switch toolName {
	case FlightInformation:
		return m.MapFlight(args.Flight())
	case Accommodation:
		return m.MapAccommodation(args.Accommodation())
	case Sightseeing:
		return m.MapSightseeing(args.Sightseeing())
	default:
		return MappingResult{Error: "Unknown tool: " + toolName}
	}
}

// MapFlight reports every problem with the arguments at once.
func (m *Mapper) MapFlight(args FlightArgs) MappingResult {
	var problems []string

	var origin, destination, departureDate string
	if args.DepartureLocation == "" {
		problems = append(problems, "Departure location is required")
	} else if code, ok := m.locations.Resolve(args.DepartureLocation); ok {
		origin = code
	} else {
		problems = append(problems, "Could not find airport code for departure location: "+args.DepartureLocation)
	}

	if args.Destination == "" {
		problems = append(problems, "Destination is required")
	} else if code, ok := m.locations.Resolve(args.Destination); ok {
		destination = code
	} else {
		problems = append(problems, "Could not find airport code for destination: "+args.Destination)
	}

	if args.DepartureDate == "" {
		problems = append(problems, "Departure date is required")
	} else if date, err := m.dates.Normalize(args.DepartureDate); err != nil {
		problems = append(problems, err.Error())
	} else {
		departureDate = date
	}

	if len(problems) > 0 {
		return failed(problems)
	}

	adults := args.NumberOfPassengers
	if adults < 1 {
		adults = 1
	}

	return MappingResult{Params: map[string]any{
		"originLocationCode":      origin,
		"destinationLocationCode": destination,
		"departureDate":           departureDate,
		"adults":                  adults,
		"travelClass":             TravelClass(args.FlightType),
	}}
}

// MapAccommodation requires only a destination. Stay dates are forwarded
// exactly as the model supplied them.
func (m *Mapper) MapAccommodation(args AccommodationArgs) MappingResult {
	if args.Destination == "" {
		return MappingResult{Error: "Destination is required"}
	}

	params := map[string]any{"destination": args.Destination}
	if args.CheckInDate != "" {
		params["checkInDate"] = args.CheckInDate
	}
	if args.CheckOutDate != "" {
		params["checkOutDate"] = args.CheckOutDate
	}
	return MappingResult{Params: params}
}

func (m *Mapper) MapSightseeing(args SightseeingArgs) MappingResult {
	if args.Destination == "" {
		return MappingResult{Error: "Destination is required"}
	}
	return MappingResult{Params: map[string]any{"destination": args.Destination}}
}

// TravelClass maps a free-form cabin choice onto the agent's enumeration.
// Only business class is distinguished; anything else is ECONOMY.
func TravelClass(flightType string) string {
	normalized := strings.ToUpper(strings.TrimSpace(flightType))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)

	switch normalized {
	case "BUSINESS-CLASS", "BUSINESS":
		return "BUSINESS"
	default:
		return "ECONOMY"
	}
}
