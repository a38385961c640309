package tools

import (
	"slices"
	"strings"

	"github.com/ollama/ollama/api"
)

// Tool names as advertised to the model. The spellings are part of the
// contract with persisted transcripts and must not change.
const (
	FlightInformation = "get_flight_information"
	Accommodation     = "get_accomodation"
	Sightseeing       = "get_sightSeeing"
)

// Parameter names shared by the schemas and argument parsing.
const (
	ParamDepartureLocation  = "departure_location"
	ParamDestination        = "destination"
	ParamDepartureDate      = "departure_date"
	ParamFlightType         = "flight_type"
	ParamNumberOfPassengers = "number_of_passengers"
	ParamCheckInDate        = "checkInDate"
	ParamCheckOutDate       = "checkOutDate"
)

// FlightTypes lists the cabin values the model may choose from.
var FlightTypes = []string{"ECONOMY", "BUSINESS-CLASS", "FIRST-CLASS", "PREMIUM-ECONOMY"}

func IsKnown(toolName string) bool {
	return slices.Contains([]string{FlightInformation, Accommodation, Sightseeing}, toolName)
}

// Definitions returns the tool schemas offered to the model on every turn.
func Definitions() []api.Tool {
	return []api.Tool{
		NewToolBuilder(FlightInformation, "Get flight information for a trip between two locations on a given date.").
			StringParam(ParamDepartureLocation, "City, airport name or IATA code the traveller departs from.", true).
			StringParam(ParamDestination, "City, airport name or IATA code the traveller flies to.", true).
			StringParam(ParamDepartureDate, "Departure date in YYYY-MM-DD format.", true).
			StringParam(ParamFlightType, "Cabin class. One of: "+strings.Join(FlightTypes, ", ")+".", true).
			IntegerParam(ParamNumberOfPassengers, "Number of adult passengers.", true).
			Build(),
		NewToolBuilder(Accommodation, "Get accommodation options at the destination for the given stay.").
			StringParam(ParamDestination, "City where the traveller needs accommodation.", true).
			StringParam(ParamCheckInDate, "Check-in date in YYYY-MM-DD format.", true).
			StringParam(ParamCheckOutDate, "Check-out date in YYYY-MM-DD format.", true).
			Build(),
		NewToolBuilder(Sightseeing, "Get sightseeing suggestions at the destination.").
			StringParam(ParamDestination, "City the traveller wants to explore.", true).
			Build(),
	}
}
