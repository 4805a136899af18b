package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"wayfinder.opentransit.org/internal/app"
	"wayfinder.opentransit.org/internal/appconf"
	"wayfinder.opentransit.org/internal/gtfs"
	"wayfinder.opentransit.org/internal/logging"
	"wayfinder.opentransit.org/internal/planner"
	"wayfinder.opentransit.org/internal/restapi"
)

func main() {
	var (
		port        int
		env         string
		gtfsPath    string
		plannerConf string
		verbose     bool
	)

	flag.IntVar(&port, "port", 4000, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&gtfsPath, "gtfs-path", "./bus routing", "Directory of GTFS tables or path of a GTFS zip archive")
	flag.StringVar(&plannerConf, "planner-config", "", "Optional YAML file with planner settings")
	flag.BoolVar(&verbose, "verbose", false, "Log per-record load diagnostics")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	plannerConfig := planner.DefaultConfig()
	if plannerConf != "" {
		cfg, err := planner.LoadConfig(plannerConf)
		if err != nil {
			logger.Error("failed to load planner config", "error", err, "path", plannerConf)
			os.Exit(1)
		}
		plannerConfig = cfg
	}

	gtfsManager := gtfs.InitManager(gtfs.Config{
		StaticPath: gtfsPath,
		Env:        appconf.EnvFlagToEnvironment(env),
		Verbose:    verbose,
	}, logger)

	application := &app.Application{
		Config: app.Config{
			Port: port,
			Env:  appconf.EnvFlagToEnvironment(env),
		},
		Logger:      logger,
		GtfsManager: gtfsManager,
		Planner:     planner.New(gtfsManager, plannerConfig, logger),
	}

	api := restapi.NewRestAPI(application)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      api.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", env, "engine", gtfsManager.Status().State)
	err := srv.ListenAndServe()
	logger.Error(err.Error())
	os.Exit(1)
}
