package models

// Stop is a geo-located boarding or alighting point from the stops table.
type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Route is a named service grouping one or more trips.
type Route struct {
	ID        string
	ShortName string
	LongName  string
	Type      string
}

// DisplayName returns the rider-facing name for the route: the short name
// when present, otherwise the long name, otherwise the raw route ID.
func (r Route) DisplayName() string {
	if r.ShortName != "" {
		return r.ShortName
	}
	if r.LongName != "" {
		return r.LongName
	}
	return r.ID
}

// Trip is one scheduled run of a vehicle along a route.
type Trip struct {
	ID       string
	RouteID  string
	Headsign string
}

// StopTime joins a trip to a stop at a position in the trip's sequence.
// Sequence values are opaque ordering keys; they are not required to be
// contiguous. Times keep the GTFS "H+:MM:SS" text form; hours past 23
// denote service rolling past midnight.
type StopTime struct {
	TripID    string
	StopID    string
	Sequence  uint32
	Arrival   string
	Departure string
}

// NearbyStop pairs a stop with its great-circle distance from a query point.
type NearbyStop struct {
	Stop       Stop
	DistanceKm float64
}
