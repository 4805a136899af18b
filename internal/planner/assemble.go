package planner

import (
	"fmt"
	"math"

	"wayfinder.opentransit.org/internal/models"
	"wayfinder.opentransit.org/internal/utils"
)

// assemble shapes one or two legs plus the endpoint coordinates into the
// public itinerary record: walk segments at both ends, a bus segment per
// leg, and for two-leg journeys a zero-distance wait segment at the
// transfer stop.
func (p *Planner) assemble(pickup, drop models.LatLng, pickupStop, dropStop models.NearbyStop, legs []leg, waitMinutes int) models.Itinerary {
	var segments []models.Segment
	var path []models.LatLng
	totalKm := 0.0
	fare := 0.0
	stopCount := 0

	segments = append(segments, p.walkSegment(
		pickup,
		models.LatLng{Lat: pickupStop.Stop.Lat, Lng: pickupStop.Stop.Lon},
		pickupStop.DistanceKm,
		"Walk to "+pickupStop.Stop.Name,
	))
	totalKm += pickupStop.DistanceKm

	for i, ride := range legs {
		if i > 0 {
			segments = append(segments, p.transferSegment(ride, waitMinutes))
		}

		busSeg := p.busSegment(ride, i)
		segments = append(segments, busSeg)
		for _, point := range busSeg.Stops {
			path = append(path, models.LatLng{Lat: point.Lat, Lng: point.Lng})
		}

		stopCount += len(ride.stops)
		totalKm += p.config.KmPerStopEstimate * float64(len(ride.stops))
		fare += p.config.FareBasePerLeg + p.config.FarePerStop*float64(len(ride.stops))
	}

	segments = append(segments, p.walkSegment(
		models.LatLng{Lat: dropStop.Stop.Lat, Lng: dropStop.Stop.Lon},
		drop,
		dropStop.DistanceKm,
		"Walk to destination",
	))
	totalKm += dropStop.DistanceKm

	totalMinutes := 0
	for _, segment := range segments {
		totalMinutes += durationMinutes(segment.Duration)
	}

	routeName := legs[0].route.DisplayName()
	if len(legs) > 1 {
		routeName += " + " + legs[1].route.DisplayName()
	}

	return models.Itinerary{
		RouteName:     routeName,
		StartStop:     pickupStop.Stop.Name,
		EndStop:       dropStop.Stop.Name,
		DepartureTime: legs[0].start().Departure,
		ArrivalTime:   legs[len(legs)-1].end().Arrival,
		Duration:      formatMinutes(totalMinutes),
		StopCount:     stopCount,
		Fare:          int(math.Ceil(fare)),
		Path:          path,
		Segments:      segments,
		TotalDistance: fmt.Sprintf("%.1f km", totalKm),
	}
}

func (p *Planner) walkSegment(from, to models.LatLng, distanceKm float64, instruction string) models.Segment {
	return models.Segment{
		Kind:        models.SegmentKindWalk,
		From:        from,
		To:          to,
		Distance:    fmt.Sprintf("%.2f km", distanceKm),
		Duration:    formatMinutes(utils.WalkMinutes(distanceKm, p.config.WalkSpeedMetersPerMin)),
		Instruction: instruction,
		Color:       models.ColorWalk,
	}
}

// transferSegment renders the wait at the transfer stop as a
// zero-distance walk between the two bus segments.
func (p *Planner) transferSegment(secondLeg leg, waitMinutes int) models.Segment {
	at := models.LatLng{}
	name := models.UnknownValue
	if stop, ok := p.manager.StopByID(secondLeg.start().StopID); ok {
		at = models.LatLng{Lat: stop.Lat, Lng: stop.Lon}
		name = stop.Name
	}
	return models.Segment{
		Kind:        models.SegmentKindWalk,
		From:        at,
		To:          at,
		Distance:    "0.00 km",
		Duration:    formatMinutes(waitMinutes),
		Instruction: "Transfer at " + name,
		Color:       models.ColorWalk,
	}
}

func (p *Planner) busSegment(ride leg, index int) models.Segment {
	color := models.ColorBusFirst
	if index > 0 {
		color = models.ColorBusSecond
	}

	points := p.pathPoints(ride)
	from := models.LatLng{}
	to := models.LatLng{}
	if len(points) > 0 {
		from = models.LatLng{Lat: points[0].Lat, Lng: points[0].Lng}
		to = models.LatLng{Lat: points[len(points)-1].Lat, Lng: points[len(points)-1].Lng}
	}

	startName := p.stopName(ride.start().StopID)
	endName := p.stopName(ride.end().StopID)

	return models.Segment{
		Kind:        models.SegmentKindBus,
		From:        from,
		To:          to,
		Distance:    fmt.Sprintf("%.1f km", p.config.KmPerStopEstimate*float64(len(ride.stops))),
		Duration:    formatMinutes(busMinutes(ride)),
		Instruction: fmt.Sprintf("Take bus %s from %s to %s", ride.route.DisplayName(), startName, endName),
		RouteName:   ride.route.DisplayName(),
		Stops:       points,
		Color:       color,
	}
}

// busMinutes measures ride time from scheduled departure at the boarding
// stop to arrival at the alighting stop, counting a part minute as
// ridden.
func busMinutes(ride leg) int {
	departure, depOK := secondsOf(ride.start().Departure)
	arrival, arrOK := secondsOf(ride.end().Arrival)
	if !depOK || !arrOK || arrival <= departure {
		return 0
	}
	return (arrival - departure + 59) / 60
}

// pathPoints projects the leg's stop times onto map coordinates.
func (p *Planner) pathPoints(ride leg) []models.PathPoint {
	points := make([]models.PathPoint, 0, len(ride.stops))
	for _, st := range ride.stops {
		stop, ok := p.manager.StopByID(st.StopID)
		if !ok {
			continue
		}
		points = append(points, models.PathPoint{
			Lat:      stop.Lat,
			Lng:      stop.Lon,
			Name:     stop.Name,
			Sequence: st.Sequence,
			Time:     st.Arrival,
		})
	}
	return points
}

func (p *Planner) stopName(stopID string) string {
	if stop, ok := p.manager.StopByID(stopID); ok && stop.Name != "" {
		return stop.Name
	}
	return stopID
}
