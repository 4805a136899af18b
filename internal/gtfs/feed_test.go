package gtfs

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfinder.opentransit.org/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func minimalFeedTables() map[string]string {
	return map[string]string{
		"stops.csv": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"A,Alpha,0,0\n" +
			"B,Bravo,0,0.01\n",
		"routes.csv": "route_id,route_short_name,route_long_name,route_type\n" +
			"R1,R1,Route One,3\n",
		"trips.csv": "trip_id,route_id,trip_headsign\n" +
			"T1,R1,Bravo\n",
		"stop_times.csv": "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"T1,A,1,08:00:00,08:00:30\n" +
			"T1,B,2,08:05:00,08:05:30\n",
	}
}

func TestLoadFeed(t *testing.T) {
	dir := models.WriteGTFSFixture(t, minimalFeedTables())

	feed, err := LoadFeed(dir, testLogger())
	require.NoError(t, err)

	assert.Len(t, feed.Stops, 2)
	assert.Len(t, feed.Routes, 1)
	assert.Len(t, feed.Trips, 1)
	assert.Len(t, feed.StopTimes, 2)
	assert.True(t, feed.HasRoutes)
	assert.Equal(t, 0, feed.DroppedRows)

	assert.Equal(t, models.Stop{ID: "A", Name: "Alpha", Lat: 0, Lon: 0}, feed.Stops[0])
	assert.Equal(t, models.StopTime{
		TripID: "T1", StopID: "A", Sequence: 1,
		Arrival: "08:00:00", Departure: "08:00:30",
	}, feed.StopTimes[0])
}

func TestLoadFeedAcceptsTxtTables(t *testing.T) {
	tables := minimalFeedTables()
	renamed := map[string]string{
		"stops.txt":      tables["stops.csv"],
		"routes.txt":     tables["routes.csv"],
		"trips.txt":      tables["trips.csv"],
		"stop_times.txt": tables["stop_times.csv"],
	}
	dir := models.WriteGTFSFixture(t, renamed)

	feed, err := LoadFeed(dir, testLogger())
	require.NoError(t, err)
	assert.Len(t, feed.Stops, 2)
}

func TestLoadFeedHandlesQuotedFields(t *testing.T) {
	tables := minimalFeedTables()
	tables["stops.csv"] = "stop_id,stop_name,stop_lat,stop_lon\n" +
		"A,\"Alpha, Main St\",0,0\n" +
		"B,Bravo,0,0.01\n"
	dir := models.WriteGTFSFixture(t, tables)

	feed, err := LoadFeed(dir, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "Alpha, Main St", feed.Stops[0].Name)
}

func TestLoadFeedDropsRowsWithMissingRequiredColumns(t *testing.T) {
	tables := minimalFeedTables()
	tables["stops.csv"] = "stop_id,stop_name,stop_lat,stop_lon\n" +
		"A,Alpha,0,0\n" +
		",Nameless,0,0.01\n" + // no stop_id
		"B,Bravo,not-a-number,0.01\n" + // bad latitude
		"C,Charlie,0,0.02\n"
	tables["stop_times.csv"] = "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,A,1,08:00:00,08:00:30\n" +
		"T1,B,xyz,08:02:00,08:02:30\n" + // bad sequence
		"T1,C,3,08:05:00,08:05:30\n"
	dir := models.WriteGTFSFixture(t, tables)

	feed, err := LoadFeed(dir, testLogger())
	require.NoError(t, err)

	assert.Len(t, feed.Stops, 2)
	assert.Len(t, feed.StopTimes, 2)
	assert.Equal(t, 3, feed.DroppedRows)
}

func TestLoadFeedDropsRowsWithMalformedTimes(t *testing.T) {
	tables := minimalFeedTables()
	tables["stop_times.csv"] = "trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
		"T1,A,1,08:00:00,08:00:30\n" +
		"T1,B,2,bogus,08:05:30\n"
	dir := models.WriteGTFSFixture(t, tables)

	feed, err := LoadFeed(dir, testLogger())
	require.NoError(t, err)
	assert.Len(t, feed.StopTimes, 1)
	assert.Equal(t, 1, feed.DroppedRows)
}

func TestLoadFeedWithoutRoutesTable(t *testing.T) {
	tables := minimalFeedTables()
	delete(tables, "routes.csv")
	dir := models.WriteGTFSFixture(t, tables)

	feed, err := LoadFeed(dir, testLogger())
	require.NoError(t, err)
	assert.False(t, feed.HasRoutes)
	assert.Empty(t, feed.Routes)
}

func TestLoadFeedFailsWithoutMandatoryTables(t *testing.T) {
	for _, missing := range []string{"stops.csv", "trips.csv", "stop_times.csv"} {
		t.Run(missing, func(t *testing.T) {
			tables := minimalFeedTables()
			delete(tables, missing)
			dir := models.WriteGTFSFixture(t, tables)

			_, err := LoadFeed(dir, testLogger())
			assert.Error(t, err)
		})
	}
}

func TestLoadFeedFailsWhenEveryRowIsUnusable(t *testing.T) {
	tables := minimalFeedTables()
	tables["stops.csv"] = "stop_id,stop_name,stop_lat,stop_lon\n" +
		",Nameless,bad,worse\n"
	dir := models.WriteGTFSFixture(t, tables)

	_, err := LoadFeed(dir, testLogger())
	assert.Error(t, err)
}

func TestLoadFeedSkipsEmptyLines(t *testing.T) {
	tables := minimalFeedTables()
	tables["stops.csv"] = "stop_id,stop_name,stop_lat,stop_lon\n\n" +
		"A,Alpha,0,0\n\n" +
		"B,Bravo,0,0.01\n"
	dir := models.WriteGTFSFixture(t, tables)

	feed, err := LoadFeed(dir, testLogger())
	require.NoError(t, err)
	assert.Len(t, feed.Stops, 2)
	assert.Equal(t, 0, feed.DroppedRows)
}
