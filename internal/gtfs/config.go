package gtfs

import "wayfinder.opentransit.org/internal/appconf"

// Config holds the feed-ingestion settings for the engine.
type Config struct {
	// StaticPath is either a directory holding the GTFS tables as
	// delimited text files, or the path of a zipped GTFS archive.
	StaticPath string
	Env        appconf.Environment
	Verbose    bool
}
