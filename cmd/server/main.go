package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"csv-processor/internal/config"
	"csv-processor/internal/handlers"
	"csv-processor/internal/logging"
	"csv-processor/internal/services"
)

const (
	AppVersion = "1.0.0"
)

func main() {
	cfg, err := config.ParseServerFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	files := config.GetDataFiles()
	logger.Info("Starting ciblage dashboard",
		slog.String("version", AppVersion),
		slog.String("commune", config.CommuneName),
		slog.String("data_dir", config.DataDir),
		slog.String("output_dir", config.OutputDir))

	// Missing inputs are not fatal, the pass degrades to null columns
	for _, name := range []string{files.Demographics, files.Income, files.Mobility, files.Crosswalk, files.Stations} {
		if _, err := os.Stat(config.GetDataFilePath(name)); os.IsNotExist(err) {
			logging.LogWarning(logger, "input file not found",
				slog.String("path", config.GetDataFilePath(name)),
				slog.String("component", "startup"))
		}
	}

	// Initialize services and handlers
	loader := services.NewLoader(config.DataDir, logger)
	pipeline := services.NewPipeline(loader, files, logger)
	exports := services.NewExportService(config.OutputDir, logger)
	briefings := services.NewBriefingService(config.OutputDir, files.BriefingPrefix, config.GetAssetFilePath(files.Logo), logger)
	boundaries := services.NewBoundaryService(config.DataDir, files.Boundaries, logger)
	dashboard := handlers.NewDashboardHandler(pipeline, exports, briefings, boundaries, files, logger)

	server := http.Server{
		Handler:      dashboard.Routes(),
		Addr:         ":" + strconv.Itoa(cfg.Port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	logger.Info("Listening", slog.Int("port", cfg.Port))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logging.LogError(logger, "Server closed", err)
		os.Exit(1)
	}
	logger.Info("Server closed")
}
