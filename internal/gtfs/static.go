package gtfs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jamespfennell/gtfs"

	"wayfinder.opentransit.org/internal/models"
)

// loadFeedFromArchive parses a zipped GTFS feed and converts it into the
// engine's table records. Real-world feeds usually ship zipped; unpacked
// directories of delimited text go through LoadFeed instead.
func loadFeedFromArchive(path string) (*Feed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS archive: %w", err)
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS archive: %w", err)
	}

	return feedFromStatic(staticData)
}

func feedFromStatic(staticData *gtfs.Static) (*Feed, error) {
	feed := &Feed{HasRoutes: len(staticData.Routes) > 0}

	for _, stop := range staticData.Stops {
		if stop.Latitude == nil || stop.Longitude == nil {
			feed.DroppedRows++
			continue
		}
		feed.Stops = append(feed.Stops, models.Stop{
			ID:   stop.Id,
			Name: stop.Name,
			Lat:  *stop.Latitude,
			Lon:  *stop.Longitude,
		})
	}

	for _, route := range staticData.Routes {
		feed.Routes = append(feed.Routes, models.Route{
			ID:        route.Id,
			ShortName: route.ShortName,
			LongName:  route.LongName,
			Type:      strconv.Itoa(int(route.Type)),
		})
	}

	for i := range staticData.Trips {
		trip := &staticData.Trips[i]
		if trip.Route == nil {
			feed.DroppedRows++
			continue
		}
		feed.Trips = append(feed.Trips, models.Trip{
			ID:       trip.ID,
			RouteID:  trip.Route.Id,
			Headsign: trip.Headsign,
		})

		for _, st := range trip.StopTimes {
			if st.Stop == nil {
				feed.DroppedRows++
				continue
			}
			feed.StopTimes = append(feed.StopTimes, models.StopTime{
				TripID:    trip.ID,
				StopID:    st.Stop.Id,
				Sequence:  uint32(st.StopSequence),
				Arrival:   FormatTime(int(st.ArrivalTime / time.Second)),
				Departure: FormatTime(int(st.DepartureTime / time.Second)),
			})
		}
	}

	if len(feed.Stops) == 0 || len(feed.Trips) == 0 || len(feed.StopTimes) == 0 {
		return nil, fmt.Errorf("GTFS archive is missing mandatory records")
	}

	return feed, nil
}
