package app

import (
	"log/slog"

	"wayfinder.opentransit.org/internal/appconf"
	"wayfinder.opentransit.org/internal/gtfs"
	"wayfinder.opentransit.org/internal/planner"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config      Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
	Planner     *planner.Planner
}

// Config holds the server-level settings: the network port to listen on
// and the current operating environment.
type Config struct {
	Port int
	Env  appconf.Environment
}
