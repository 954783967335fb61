package intent

import "fmt"

type Kind string

const (
	KindSearchFlight Kind = "search_flight"
	KindChat         Kind = "chat"
)

// Result is either FlightSearch or Chat.
type Result interface {
	Kind() Kind
	isResult()
}

// FlightSearch is an extracted flight-search directive. The classifier does
// not search; the caller hands the fields to the travel provider.
type FlightSearch struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Date        *string `json:"date"` // nil when the prompt named no date
}

func (FlightSearch) Kind() Kind { return KindSearchFlight }
func (FlightSearch) isResult()  {}

// Message is the confirmation shown to the user.
func (f FlightSearch) Message() string {
	return fmt.Sprintf("Searching flights from %s to %s...", f.Origin, f.Destination)
}

// Chat carries a normal answer to the original prompt.
type Chat struct {
	Message string `json:"message"`
}

func (Chat) Kind() Kind { return KindChat }
func (Chat) isResult()  {}
