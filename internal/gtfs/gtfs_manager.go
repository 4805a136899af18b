package gtfs

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"wayfinder.opentransit.org/internal/logging"
	"wayfinder.opentransit.org/internal/models"
	"wayfinder.opentransit.org/internal/utils"
)

// State tracks the engine lifecycle. Queries issued in any state other
// than StateReady return empty results rather than errors.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDisabled:
		return "disabled"
	default:
		return "unloaded"
	}
}

const (
	defaultNearbyLimit = 20
	defaultNearbyMaxKm = 2.0
)

// Manager owns the GTFS indices and answers read-only queries over them.
// All indices are built once by InitManager; afterwards concurrent readers
// are safe without locking because nothing mutates.
type Manager struct {
	config   Config
	logger   *slog.Logger
	state    State
	loadedAt time.Time

	droppedRows     int
	danglingRecords int
	hasRoutes       bool

	stopsByID  map[string]models.Stop
	routesByID map[string]models.Route
	tripsByID  map[string]models.Trip

	// stopTimesByStop lists every stop time touching a stop, ordered by
	// (trip ID, sequence) so trip resolution is deterministic.
	stopTimesByStop map[string][]models.StopTime
	// stopTimesByTrip lists a trip's stop times in sequence order.
	stopTimesByTrip map[string][]models.StopTime
	// routesByStop holds the sorted route IDs with at least one trip
	// touching the stop.
	routesByStop map[string][]string
	// stopsByRoute is the canonical stop sequence of a route, taken from
	// its sample trip. Routes with several trip patterns under-report
	// reachability; the sample keeps membership checks O(1).
	stopsByRoute map[string][]string
	indexInRoute map[string]map[string]int

	// stops is sorted by stop ID and is the scan order for nearby search.
	stops         []models.Stop
	stopTimeCount int
}

// InitManager loads the configured feed and builds the indices. It never
// fails hard: an unreadable or unusable feed produces a disabled manager
// whose queries all come back empty.
func InitManager(config Config, logger *slog.Logger) *Manager {
	manager := &Manager{
		config: config,
		logger: logger,
		state:  StateLoading,
	}

	feed, err := loadStaticFeed(config.StaticPath, logger)
	if err != nil {
		logging.LogError(logger, "disabling journey engine: static feed unavailable", err,
			slog.String("path", config.StaticPath))
		manager.state = StateDisabled
		return manager
	}

	manager.buildIndices(feed)
	if manager.danglingRecords > 0 && logger != nil {
		logger.Warn("dropped records with dangling references or duplicate IDs",
			slog.Int("count", manager.danglingRecords), slog.String("path", config.StaticPath))
	}
	manager.loadedAt = time.Now()
	manager.state = StateReady

	logging.LogOperation(logger, "gtfs_feed_loaded",
		slog.String("path", config.StaticPath),
		slog.Int("stops", len(manager.stops)),
		slog.Int("routes", len(manager.routesByID)),
		slog.Int("trips", len(manager.tripsByID)),
		slog.Int("stop_times", manager.stopTimeCount),
		slog.Int("dropped_rows", manager.droppedRows),
		slog.Int("dangling_records", manager.danglingRecords))

	return manager
}

// loadStaticFeed dispatches on the path shape: a directory of delimited
// tables or a zipped archive.
func loadStaticFeed(path string, logger *slog.Logger) (*Feed, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadFeed(path, logger)
	}
	return loadFeedFromArchive(path)
}

func (manager *Manager) buildIndices(feed *Feed) {
	manager.droppedRows = feed.DroppedRows
	manager.hasRoutes = feed.HasRoutes

	manager.stopsByID = make(map[string]models.Stop, len(feed.Stops))
	for _, stop := range feed.Stops {
		if _, exists := manager.stopsByID[stop.ID]; exists {
			manager.danglingRecords++
			continue
		}
		manager.stopsByID[stop.ID] = stop
	}

	manager.stops = make([]models.Stop, 0, len(manager.stopsByID))
	for _, stop := range manager.stopsByID {
		manager.stops = append(manager.stops, stop)
	}
	sort.Slice(manager.stops, func(i, j int) bool { return manager.stops[i].ID < manager.stops[j].ID })

	manager.routesByID = make(map[string]models.Route, len(feed.Routes))
	for _, route := range feed.Routes {
		if _, exists := manager.routesByID[route.ID]; !exists {
			manager.routesByID[route.ID] = route
		}
	}

	manager.tripsByID = make(map[string]models.Trip, len(feed.Trips))
	for _, trip := range feed.Trips {
		if manager.hasRoutes {
			if _, ok := manager.routesByID[trip.RouteID]; !ok {
				manager.warnDangling("trip references unknown route",
					slog.String("trip_id", trip.ID), slog.String("route_id", trip.RouteID))
				continue
			}
		} else if _, ok := manager.routesByID[trip.RouteID]; !ok {
			// No routes table: synthesize a placeholder so display
			// names degrade to the raw route ID.
			manager.routesByID[trip.RouteID] = models.Route{ID: trip.RouteID}
		}
		if _, exists := manager.tripsByID[trip.ID]; exists {
			manager.danglingRecords++
			continue
		}
		manager.tripsByID[trip.ID] = trip
	}

	manager.stopTimesByStop = make(map[string][]models.StopTime)
	manager.stopTimesByTrip = make(map[string][]models.StopTime)
	for _, st := range feed.StopTimes {
		if _, ok := manager.stopsByID[st.StopID]; !ok {
			manager.warnDangling("stop time references unknown stop",
				slog.String("trip_id", st.TripID), slog.String("stop_id", st.StopID))
			continue
		}
		if _, ok := manager.tripsByID[st.TripID]; !ok {
			manager.warnDangling("stop time references unknown trip",
				slog.String("trip_id", st.TripID), slog.String("stop_id", st.StopID))
			continue
		}
		manager.stopTimesByStop[st.StopID] = append(manager.stopTimesByStop[st.StopID], st)
		manager.stopTimesByTrip[st.TripID] = append(manager.stopTimesByTrip[st.TripID], st)
		manager.stopTimeCount++
	}

	for _, times := range manager.stopTimesByTrip {
		sort.Slice(times, func(i, j int) bool { return times[i].Sequence < times[j].Sequence })
	}
	for _, times := range manager.stopTimesByStop {
		sort.Slice(times, func(i, j int) bool {
			if times[i].TripID != times[j].TripID {
				return times[i].TripID < times[j].TripID
			}
			return times[i].Sequence < times[j].Sequence
		})
	}

	manager.buildRouteIndices()
}

// buildRouteIndices derives routesByStop and the canonical stop sequence
// per route. The sample trip for a route is the first trip in trip-ID
// order that has stop times, which keeps results stable across runs.
func (manager *Manager) buildRouteIndices() {
	routeSet := make(map[string]map[string]bool)

	tripIDs := make([]string, 0, len(manager.tripsByID))
	for tripID := range manager.tripsByID {
		tripIDs = append(tripIDs, tripID)
	}
	sort.Strings(tripIDs)

	manager.stopsByRoute = make(map[string][]string)
	manager.indexInRoute = make(map[string]map[string]int)

	for _, tripID := range tripIDs {
		trip := manager.tripsByID[tripID]
		times := manager.stopTimesByTrip[tripID]
		if len(times) == 0 {
			continue
		}

		for _, st := range times {
			if routeSet[st.StopID] == nil {
				routeSet[st.StopID] = make(map[string]bool)
			}
			routeSet[st.StopID][trip.RouteID] = true
		}

		if _, sampled := manager.stopsByRoute[trip.RouteID]; sampled {
			continue
		}
		seq := make([]string, 0, len(times))
		index := make(map[string]int, len(times))
		for _, st := range times {
			if _, seen := index[st.StopID]; !seen {
				index[st.StopID] = len(seq)
				seq = append(seq, st.StopID)
			}
		}
		manager.stopsByRoute[trip.RouteID] = seq
		manager.indexInRoute[trip.RouteID] = index
	}

	manager.routesByStop = make(map[string][]string, len(routeSet))
	for stopID, routes := range routeSet {
		ids := make([]string, 0, len(routes))
		for routeID := range routes {
			ids = append(ids, routeID)
		}
		sort.Strings(ids)
		manager.routesByStop[stopID] = ids
	}
}

func (manager *Manager) warnDangling(message string, attrs ...slog.Attr) {
	manager.danglingRecords++
	if manager.config.Verbose && manager.logger != nil {
		manager.logger.LogAttrs(context.Background(), slog.LevelWarn, message, attrs...)
	}
}

// IsReady reports whether the engine finished loading and can answer
// queries.
func (manager *Manager) IsReady() bool {
	return manager.state == StateReady
}

// Status returns the queryable result of the load.
func (manager *Manager) Status() models.EngineStatus {
	status := models.EngineStatus{
		State:           manager.state.String(),
		Stops:           len(manager.stops),
		Routes:          len(manager.routesByID),
		Trips:           len(manager.tripsByID),
		StopTimes:       manager.stopTimeCount,
		DroppedRows:     manager.droppedRows,
		DanglingRecords: manager.danglingRecords,
	}
	if !manager.loadedAt.IsZero() {
		status.LoadedAt = manager.loadedAt.Format(time.RFC3339)
	}
	return status
}

// StopsNearby returns the limit closest stops within maxKm of the query
// coordinate, closest first. Ties at the same distance order by stop ID.
// Non-positive limit or radius fall back to the engine defaults.
func (manager *Manager) StopsNearby(lat, lon float64, limit int, maxKm float64) []models.NearbyStop {
	if manager.state != StateReady {
		return nil
	}
	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	if maxKm <= 0 {
		maxKm = defaultNearbyMaxKm
	}

	var nearby []models.NearbyStop
	for _, stop := range manager.stops {
		distance := utils.Haversine(lat, lon, stop.Lat, stop.Lon)
		if distance <= maxKm {
			nearby = append(nearby, models.NearbyStop{Stop: stop, DistanceKm: distance})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].Stop.ID < nearby[j].Stop.ID
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby
}

// StopByID looks up one stop.
func (manager *Manager) StopByID(id string) (models.Stop, bool) {
	stop, ok := manager.stopsByID[id]
	return stop, ok
}

// TripByID looks up one trip.
func (manager *Manager) TripByID(id string) (models.Trip, bool) {
	trip, ok := manager.tripsByID[id]
	return trip, ok
}

// RouteByID looks up one route.
func (manager *Manager) RouteByID(id string) (models.Route, bool) {
	route, ok := manager.routesByID[id]
	return route, ok
}

// RouteDisplayName resolves the rider-facing name for a route ID. Unknown
// routes degrade to the raw ID.
func (manager *Manager) RouteDisplayName(id string) string {
	if route, ok := manager.routesByID[id]; ok {
		return route.DisplayName()
	}
	return id
}

// RoutesForStop returns the sorted IDs of every route with at least one
// trip touching the stop.
func (manager *Manager) RoutesForStop(stopID string) []string {
	return manager.routesByStop[stopID]
}

// RouteSequence returns the canonical stop sequence of a route.
func (manager *Manager) RouteSequence(routeID string) []string {
	return manager.stopsByRoute[routeID]
}

// IndexInRoute returns the position of a stop in a route's canonical
// sequence.
func (manager *Manager) IndexInRoute(routeID, stopID string) (int, bool) {
	index, ok := manager.indexInRoute[routeID]
	if !ok {
		return 0, false
	}
	position, ok := index[stopID]
	return position, ok
}

// StopTimesForStop returns every stop time touching the stop, ordered by
// (trip ID, sequence).
func (manager *Manager) StopTimesForStop(stopID string) []models.StopTime {
	return manager.stopTimesByStop[stopID]
}

// StopTimesForTrip returns the trip's stop times in sequence order.
func (manager *Manager) StopTimesForTrip(tripID string) []models.StopTime {
	return manager.stopTimesByTrip[tripID]
}
