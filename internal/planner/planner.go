package planner

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"wayfinder.opentransit.org/internal/gtfs"
	"wayfinder.opentransit.org/internal/logging"
	"wayfinder.opentransit.org/internal/models"
)

// Planner answers journey queries against a loaded GTFS manager. It is
// stateless between calls; identical inputs against the same manager
// snapshot produce identical output.
type Planner struct {
	manager *gtfs.Manager
	config  Config
	logger  *slog.Logger
}

func New(manager *gtfs.Manager, config Config, logger *slog.Logger) *Planner {
	return &Planner{
		manager: manager,
		config:  config,
		logger:  logger,
	}
}

// FindRoutes plans up to MaxResults itineraries from the pickup coordinate
// to the drop coordinate: a walk to a nearby stop, one bus ride or two
// rides joined by a transfer, and a walk to the destination. Results come
// back sorted by total duration. The list is empty when the engine is not
// ready or no feasible journey exists; query failures never surface as
// errors.
func (p *Planner) FindRoutes(pickup, drop models.LatLng) []models.Itinerary {
	itineraries := []models.Itinerary{}
	if !p.manager.IsReady() {
		return itineraries
	}

	pickupStops := p.manager.StopsNearby(pickup.Lat, pickup.Lng, p.config.NearbyLimit, p.config.MaxNearbyKm)
	dropStops := p.manager.StopsNearby(drop.Lat, drop.Lng, p.config.NearbyLimit, p.config.MaxNearbyKm)
	if len(pickupStops) == 0 || len(dropStops) == 0 {
		logging.LogOperation(p.logger, "no stops within reach of query",
			slog.Int("pickup_candidates", len(pickupStops)),
			slog.Int("drop_candidates", len(dropStops)))
		return itineraries
	}

	itineraries = append(itineraries, p.findDirect(pickup, drop, pickupStops, dropStops)...)
	if len(itineraries) < p.config.MaxResults {
		itineraries = append(itineraries, p.findTransfers(pickup, drop, pickupStops, dropStops)...)
	}

	sort.SliceStable(itineraries, func(i, j int) bool {
		di, dj := durationMinutes(itineraries[i].Duration), durationMinutes(itineraries[j].Duration)
		if di != dj {
			return di < dj
		}
		if itineraries[i].StopCount != itineraries[j].StopCount {
			return itineraries[i].StopCount < itineraries[j].StopCount
		}
		return itineraries[i].RouteName < itineraries[j].RouteName
	})

	if len(itineraries) > p.config.MaxResults {
		itineraries = itineraries[:p.config.MaxResults]
	}
	return itineraries
}

// leg is one continuous ride on a single trip, holding the inclusive
// stop-time slice from boarding to alighting in sequence order.
type leg struct {
	trip  models.Trip
	route models.Route
	stops []models.StopTime
}

func (l leg) start() models.StopTime { return l.stops[0] }
func (l leg) end() models.StopTime   { return l.stops[len(l.stops)-1] }

// findTripForLeg resolves the first trip on the route, in trip-ID order,
// that serves startID and later in its sequence endID. Timing plays no
// part here; a later query with a time-of-day input would pick trips
// differently.
func (p *Planner) findTripForLeg(routeID, startID, endID string) (leg, bool) {
	for _, boarding := range p.manager.StopTimesForStop(startID) {
		trip, ok := p.manager.TripByID(boarding.TripID)
		if !ok || trip.RouteID != routeID {
			continue
		}

		times := p.manager.StopTimesForTrip(boarding.TripID)
		startIdx := -1
		for i, st := range times {
			if st.StopID == startID && st.Sequence == boarding.Sequence {
				startIdx = i
				break
			}
		}
		if startIdx < 0 {
			continue
		}

		for j := startIdx + 1; j < len(times); j++ {
			if times[j].StopID != endID {
				continue
			}
			route, ok := p.manager.RouteByID(routeID)
			if !ok {
				route = models.Route{ID: routeID}
			}
			return leg{trip: trip, route: route, stops: times[startIdx : j+1]}, true
		}
	}
	return leg{}, false
}

// secondsOf parses a stop-time clock value; malformed data marks the
// candidate unusable instead of failing the query.
func secondsOf(value string) (int, bool) {
	secs, err := gtfs.ParseTime(value)
	if err != nil {
		return 0, false
	}
	return secs, true
}

// durationMinutes reads the leading integer of a "<N> mins" string.
func durationMinutes(duration string) int {
	fields := strings.Fields(duration)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

func formatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return strconv.Itoa(minutes) + " mins"
}

// sortedRouteIDs returns the keys of a route-keyed map in lexicographic
// order, pinning down iteration wherever it influences results.
func sortedRouteIDs[V any](byRoute map[string]V) []string {
	ids := make([]string, 0, len(byRoute))
	for id := range byRoute {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
