package planner

import (
	"wayfinder.opentransit.org/internal/models"
)

// findTransfers finds itineraries with exactly one transfer: ride a
// pickup route to some later stop on it, switch there to a route that
// reaches a drop stop. A candidate is feasible only when the second leg
// leaves no earlier than the first arrives; infeasible candidates are
// skipped outright, there is no search for a later trip.
func (p *Planner) findTransfers(pickup, drop models.LatLng, pickupStops, dropStops []models.NearbyStop) []models.Itinerary {
	if len(pickupStops) > p.config.TopStopsForTransfer {
		pickupStops = pickupStops[:p.config.TopStopsForTransfer]
	}
	if len(dropStops) > p.config.TopStopsForTransfer {
		dropStops = dropStops[:p.config.TopStopsForTransfer]
	}

	pickupBest := p.closestStopPerRoute(pickupStops)
	dropBest := p.closestStopPerRoute(dropStops)

	// Invert the drop routes: every stop on a drop route's canonical
	// sequence is a potential transfer point into it.
	stopToDropRoutes := make(map[string][]string)
	for _, routeID := range sortedRouteIDs(dropBest) {
		for _, stopID := range p.manager.RouteSequence(routeID) {
			stopToDropRoutes[stopID] = append(stopToDropRoutes[stopID], routeID)
		}
	}

	var itineraries []models.Itinerary
	seen := make(map[string]bool)

	for _, firstRoute := range sortedRouteIDs(pickupBest) {
		pickupStop := pickupBest[firstRoute]
		sequence := p.manager.RouteSequence(firstRoute)
		boardIdx, ok := p.manager.IndexInRoute(firstRoute, pickupStop.Stop.ID)
		if !ok {
			continue
		}

		for i := boardIdx + 1; i < len(sequence); i++ {
			transferID := sequence[i]

			for _, secondRoute := range stopToDropRoutes[transferID] {
				dropStop := dropBest[secondRoute]
				tIdx, tOK := p.manager.IndexInRoute(secondRoute, transferID)
				dIdx, dOK := p.manager.IndexInRoute(secondRoute, dropStop.Stop.ID)
				if !tOK || !dOK || tIdx >= dIdx {
					continue
				}

				key := firstRoute + "|" + transferID + "|" + secondRoute
				if seen[key] {
					continue
				}
				seen[key] = true

				firstLeg, ok := p.findTripForLeg(firstRoute, pickupStop.Stop.ID, transferID)
				if !ok {
					continue
				}
				secondLeg, ok := p.findTripForLeg(secondRoute, transferID, dropStop.Stop.ID)
				if !ok {
					continue
				}

				arrival, arrOK := secondsOf(firstLeg.end().Arrival)
				departure, depOK := secondsOf(secondLeg.start().Departure)
				if !arrOK || !depOK || departure < arrival {
					continue
				}

				wait := (departure - arrival) / 60
				itineraries = append(itineraries, p.assemble(pickup, drop, pickupStop, dropStop, []leg{firstLeg, secondLeg}, wait))
				if len(itineraries) >= p.config.MaxResults {
					return itineraries
				}
			}
		}
	}
	return itineraries
}

// closestStopPerRoute keeps the single closest nearby stop per route. The
// input arrives distance-ascending, so the first insertion wins.
func (p *Planner) closestStopPerRoute(stops []models.NearbyStop) map[string]models.NearbyStop {
	best := make(map[string]models.NearbyStop)
	for _, nearby := range stops {
		for _, routeID := range p.manager.RoutesForStop(nearby.Stop.ID) {
			if _, ok := best[routeID]; !ok {
				best[routeID] = nearby
			}
		}
	}
	return best
}
