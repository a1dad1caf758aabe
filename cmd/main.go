package main

//
//  @title           stockpulse API
//  @version         1.0
//  @description     Upload daily stock prices and get statistics, moving averages, volatility and explanations.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockpulse
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        uploads
//  @tag.description Store CSV price files
//
//  @tag.name        report
//  @tag.description Analysis and explanations of uploaded files
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/app"
	"github.com/guttosm/stockpulse/internal/ingestion"
	"github.com/guttosm/stockpulse/internal/janitor"
	"github.com/guttosm/stockpulse/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute, // explanations wait on the LLM
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (janitor, DB, Redis).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runBatch analyzes every CSV in dir and writes the reports as indented JSON to w.
func runBatch(ctx context.Context, w io.Writer, dir string, window, parallel int) error {
	reports, err := ingestion.AnalyzeDirectory(ctx, dir, window, parallel)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	return nil
}

// runPurge removes uploads older than the configured retention once.
func runPurge(ctx context.Context, cfg config.Config) (int, error) {
	store, closeStore, err := app.OpenStore(cfg)
	if err != nil {
		return 0, err
	}
	defer closeStore()

	j, err := janitor.New(store, cfg.Janitor.Schedule, cfg.Upload.Retention, nil)
	if err != nil {
		return 0, err
	}
	return j.RunOnce(ctx)
}

// main is the entry point of the stockpulse application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the REST API (default).
//   - batch: Analyzes every .csv file in --dir and prints the results as JSON.
//   - purge: Deletes uploads older than UPLOAD_RETENTION once and exits.
//
// Flags:
//   - --mode:     Execution mode ("api", "batch" or "purge"). Default: "api".
//   - --dir:      Directory containing .csv input files (batch). Default: "./data/input".
//   - --window:   Moving-average window (batch). Defaults to ANALYSIS_DEFAULT_WINDOW.
//   - --parallel: Files analyzed concurrently (batch). 0 = auto.
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api, batch or purge")
	dir := flag.String("dir", "./data/input", "Directory with .csv files")
	window := flag.Int("window", config.AppConfig.Analysis.DefaultWindow, "Moving-average window for batch mode")
	parallel := flag.Int("parallel", 0, "How many files to analyze concurrently (0=auto up to CPU, max 8)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "batch":
		logger.L().Info().Str("dir", *dir).Int("window", *window).Msg("running batch analysis")
		if err := runBatch(ctx, os.Stdout, *dir, *window, *parallel); err != nil {
			logger.L().Fatal().Err(err).Msg("batch analysis failed")
		}
		logger.L().Info().Msg("batch analysis completed successfully")

	case "purge":
		n, err := runPurge(ctx, config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("purge failed")
		}
		logger.L().Info().Int("removed", n).Msg("purge completed")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
