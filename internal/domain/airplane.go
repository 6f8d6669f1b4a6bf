package domain

type Airplane struct {
	ID       string
	Name     string
	Capacity int
}

// Stats holds the aggregate counts reported by the status endpoint.
type Stats struct {
	AirplanesCount int
	FlightsCount   int
	BookingsCount  int
}
