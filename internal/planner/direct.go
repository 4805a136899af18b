package planner

import (
	"wayfinder.opentransit.org/internal/models"
)

// findDirect finds single-ride itineraries whose pickup and drop stops
// share a route with the pickup earlier in the route's canonical
// sequence. One itinerary is produced per distinct (route name, pickup
// stop name, drop stop name) triple.
func (p *Planner) findDirect(pickup, drop models.LatLng, pickupStops, dropStops []models.NearbyStop) []models.Itinerary {
	pickupRoutes := p.routesServing(pickupStops)
	dropRoutes := p.routesServing(dropStops)

	var common []string
	for _, routeID := range sortedRouteIDs(pickupRoutes) {
		if _, ok := dropRoutes[routeID]; ok {
			common = append(common, routeID)
		}
	}

	var itineraries []models.Itinerary
	seen := make(map[string]bool)

	for _, routeID := range common {
		for _, pickupStop := range pickupRoutes[routeID] {
			for _, dropStop := range dropRoutes[routeID] {
				pIdx, pOK := p.manager.IndexInRoute(routeID, pickupStop.Stop.ID)
				dIdx, dOK := p.manager.IndexInRoute(routeID, dropStop.Stop.ID)
				if !pOK || !dOK || pIdx >= dIdx {
					continue
				}

				ride, ok := p.findTripForLeg(routeID, pickupStop.Stop.ID, dropStop.Stop.ID)
				if !ok {
					continue
				}

				key := ride.route.DisplayName() + "|" + pickupStop.Stop.Name + "|" + dropStop.Stop.Name
				if seen[key] {
					continue
				}
				seen[key] = true

				itineraries = append(itineraries, p.assemble(pickup, drop, pickupStop, dropStop, []leg{ride}, 0))
				if len(itineraries) >= p.config.MaxResults {
					return itineraries
				}
			}
		}
	}
	return itineraries
}

// routesServing groups the nearby stops by the routes that touch them,
// preserving the distance-ascending order of the input within each route.
func (p *Planner) routesServing(stops []models.NearbyStop) map[string][]models.NearbyStop {
	byRoute := make(map[string][]models.NearbyStop)
	for _, nearby := range stops {
		for _, routeID := range p.manager.RoutesForStop(nearby.Stop.ID) {
			byRoute[routeID] = append(byRoute[routeID], nearby)
		}
	}
	return byRoute
}
