package gtfs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"wayfinder.opentransit.org/internal/logging"
	"wayfinder.opentransit.org/internal/models"
)

// Feed is the typed content of one GTFS dataset after row validation.
type Feed struct {
	Stops     []models.Stop
	Routes    []models.Route
	Trips     []models.Trip
	StopTimes []models.StopTime

	// DroppedRows counts rows discarded across all tables because a
	// required column was missing or unparseable.
	DroppedRows int

	// HasRoutes reports whether a routes table was present. Without one,
	// route display names degrade to raw route IDs.
	HasRoutes bool
}

// Raw table rows. Every field stays a string so a malformed value never
// aborts the table decode; conversion and the drop-row decision happen per
// record afterwards.
type stopRow struct {
	StopID string `csv:"stop_id"`
	Name   string `csv:"stop_name"`
	Lat    string `csv:"stop_lat"`
	Lon    string `csv:"stop_lon"`
}

type routeRow struct {
	RouteID   string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Type      string `csv:"route_type"`
}

type tripRow struct {
	TripID   string `csv:"trip_id"`
	RouteID  string `csv:"route_id"`
	Headsign string `csv:"trip_headsign"`
}

type stopTimeRow struct {
	TripID    string `csv:"trip_id"`
	StopID    string `csv:"stop_id"`
	Sequence  string `csv:"stop_sequence"`
	Arrival   string `csv:"arrival_time"`
	Departure string `csv:"departure_time"`
}

// LoadFeed reads the GTFS tables from a directory of delimited text files.
// stops, trips and stop_times are mandatory; routes is optional. The error
// return is reserved for a missing or unusable mandatory table — individual
// bad rows are dropped and counted instead.
func LoadFeed(dir string, logger *slog.Logger) (*Feed, error) {
	// Tolerate records with missing trailing columns; the per-row
	// validation below decides what actually gets dropped.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		return r
	})

	feed := &Feed{}

	var stopRows []*stopRow
	if err := readTable(dir, "stops", &stopRows, logger); err != nil {
		return nil, err
	}
	feed.addStops(stopRows)
	if len(feed.Stops) == 0 {
		return nil, fmt.Errorf("stops table in %s contains no usable records", dir)
	}

	var tripRows []*tripRow
	if err := readTable(dir, "trips", &tripRows, logger); err != nil {
		return nil, err
	}
	feed.addTrips(tripRows)
	if len(feed.Trips) == 0 {
		return nil, fmt.Errorf("trips table in %s contains no usable records", dir)
	}

	var stopTimeRows []*stopTimeRow
	if err := readTable(dir, "stop_times", &stopTimeRows, logger); err != nil {
		return nil, err
	}
	feed.addStopTimes(stopTimeRows)
	if len(feed.StopTimes) == 0 {
		return nil, fmt.Errorf("stop_times table in %s contains no usable records", dir)
	}

	// The routes table is optional; without it route display names
	// degrade to raw route IDs.
	var routeRows []*routeRow
	if err := readTable(dir, "routes", &routeRows, logger); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.LogError(logger, "ignoring unreadable routes table", err, slog.String("dir", dir))
		} else {
			logger.Warn("routes table missing, route names degrade to route IDs", slog.String("dir", dir))
		}
	} else {
		feed.HasRoutes = true
		feed.addRoutes(routeRows)
	}

	if feed.DroppedRows > 0 {
		logger.Warn("dropped rows with missing or malformed required columns",
			slog.Int("count", feed.DroppedRows), slog.String("dir", dir))
	}

	return feed, nil
}

// readTable decodes one table into out. The table may be stored as either
// <name>.csv or <name>.txt; an empty file yields zero records rather than
// an error.
func readTable(dir, name string, out interface{}, logger *slog.Logger) error {
	f, err := openTable(dir, name)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(f, logger, "read "+name+" table")

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return fmt.Errorf("error decoding %s table: %w", name, err)
	}
	return nil
}

func openTable(dir, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(dir, name+".csv"))
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return os.Open(filepath.Join(dir, name+".txt"))
}

func (feed *Feed) addStops(rows []*stopRow) {
	for _, row := range rows {
		id := strings.TrimSpace(row.StopID)
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row.Lat), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row.Lon), 64)
		if id == "" || latErr != nil || lonErr != nil {
			feed.DroppedRows++
			continue
		}
		feed.Stops = append(feed.Stops, models.Stop{
			ID:   id,
			Name: strings.TrimSpace(row.Name),
			Lat:  lat,
			Lon:  lon,
		})
	}
}

func (feed *Feed) addRoutes(rows []*routeRow) {
	for _, row := range rows {
		id := strings.TrimSpace(row.RouteID)
		if id == "" {
			feed.DroppedRows++
			continue
		}
		feed.Routes = append(feed.Routes, models.Route{
			ID:        id,
			ShortName: strings.TrimSpace(row.ShortName),
			LongName:  strings.TrimSpace(row.LongName),
			Type:      strings.TrimSpace(row.Type),
		})
	}
}

func (feed *Feed) addTrips(rows []*tripRow) {
	for _, row := range rows {
		tripID := strings.TrimSpace(row.TripID)
		routeID := strings.TrimSpace(row.RouteID)
		if tripID == "" || routeID == "" {
			feed.DroppedRows++
			continue
		}
		feed.Trips = append(feed.Trips, models.Trip{
			ID:       tripID,
			RouteID:  routeID,
			Headsign: strings.TrimSpace(row.Headsign),
		})
	}
}

func (feed *Feed) addStopTimes(rows []*stopTimeRow) {
	for _, row := range rows {
		tripID := strings.TrimSpace(row.TripID)
		stopID := strings.TrimSpace(row.StopID)
		arrival := strings.TrimSpace(row.Arrival)
		departure := strings.TrimSpace(row.Departure)

		seq, seqErr := strconv.ParseUint(strings.TrimSpace(row.Sequence), 10, 32)
		_, arrErr := ParseTime(arrival)
		_, depErr := ParseTime(departure)

		if tripID == "" || stopID == "" || seqErr != nil || arrErr != nil || depErr != nil {
			feed.DroppedRows++
			continue
		}
		feed.StopTimes = append(feed.StopTimes, models.StopTime{
			TripID:    tripID,
			StopID:    stopID,
			Sequence:  uint32(seq),
			Arrival:   arrival,
			Departure: departure,
		})
	}
}
