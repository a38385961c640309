package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedArguments = errors.New("malformed tool arguments")

// Arguments is the decoded JSON object a model supplied for a tool call.
type Arguments map[string]any

// ParseArguments decodes raw tool call arguments. An empty payload is an empty object.
func ParseArguments(raw string) (Arguments, error) {
	if strings.TrimSpace(raw) == "" {
		return Arguments{}, nil
	}

	var args Arguments
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
	}
	if args == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedArguments)
	}
	return args, nil
}

// String returns the trimmed textual value of key. Numbers are formatted, other types are empty.
func (a Arguments) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Int returns key as an integer, accepting JSON numbers and numeric strings.
func (a Arguments) Int(key string) (int, bool) {
	switch v := a[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

type FlightArgs struct {
	DepartureLocation  string
	Destination        string
	DepartureDate      string
	FlightType         string
	NumberOfPassengers int
}

type AccommodationArgs struct {
	Destination  string
	CheckInDate  string
	CheckOutDate string
}

// HasDates reports whether both stay dates were supplied.
func (a AccommodationArgs) HasDates() bool {
	return a.CheckInDate != "" && a.CheckOutDate != ""
}

type SightseeingArgs struct {
	Destination string
}

func (a Arguments) Flight() FlightArgs {
	passengers, _ := a.Int(ParamNumberOfPassengers)
	return FlightArgs{
		DepartureLocation:  a.String(ParamDepartureLocation),
		Destination:        a.String(ParamDestination),
		DepartureDate:      a.String(ParamDepartureDate),
		FlightType:         a.String(ParamFlightType),
		NumberOfPassengers: passengers,
	}
}

func (a Arguments) Accommodation() AccommodationArgs {
	return AccommodationArgs{
		Destination:  a.String(ParamDestination),
		CheckInDate:  a.String(ParamCheckInDate),
		CheckOutDate: a.String(ParamCheckOutDate),
	}
}

func (a Arguments) Sightseeing() SightseeingArgs {
	return SightseeingArgs{Destination: a.String(ParamDestination)}
}
