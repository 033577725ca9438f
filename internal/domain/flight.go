package domain

// FlightLeg describes one endpoint of a flight offer.
type FlightLeg struct {
	Airport string `json:"airport"`
	Time    string `json:"time"`
	Date    string `json:"date"`
}

// FlightOffer is supplied by the external flight source. Price is a
// human-readable priced string (for example "₹3,800" or "$485") and is
// parsed by the amount resolver, never by the dialog itself.
type FlightOffer struct {
	ID           int64     `json:"id"`
	Airline      string    `json:"airline"`
	FlightNumber string    `json:"flight_number"`
	Price        string    `json:"price"`
	Departure    FlightLeg `json:"departure"`
	Arrival      FlightLeg `json:"arrival"`
	Duration     string    `json:"duration"`
}

// SearchParams are the trip parameters the conversation was started
// with. Immutable for the lifetime of a session.
type SearchParams struct {
	From           string `json:"from"`
	To             string `json:"to"`
	DepartureDate  string `json:"departure_date"`
	PassengerCount int    `json:"passenger_count"`
}
