package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/gandula/internal/adapters/http/api"
	app "github.com/okian/gandula/internal/app"
	"github.com/okian/gandula/internal/config"
	"github.com/okian/gandula/internal/domain/coordinates"
	"github.com/okian/gandula/internal/domain/types"
	pff "github.com/okian/gandula/internal/serializer/pff"
	"github.com/okian/gandula/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	eventsPath := flag.String("events", "", "path to the provider event document (one-shot mode)")
	metaPath := flag.String("meta", "", "path to the provider metadata document (one-shot mode)")
	rosterPath := flag.String("roster", "", "path to the provider roster document (one-shot mode)")
	system := flag.String("coordinates", "pff", "target coordinate system: pff, metric, normalized")
	outPath := flag.String("out", "", "output file for the converted dataset (default stdout)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One-shot conversion mode when all three documents are given.
	if *eventsPath != "" || *metaPath != "" || *rosterPath != "" {
		if *eventsPath == "" || *metaPath == "" || *rosterPath == "" {
			os.Stderr.WriteString("one-shot mode requires -events, -meta and -roster\n")
			os.Exit(1)
		}
		if err := convertFiles(ctx, *eventsPath, *metaPath, *rosterPath, *system, *outPath); err != nil {
			os.Stderr.WriteString("conversion failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		return
	}

	serve(ctx)
}

// convertFiles runs the pipeline once over three document files and writes
// the flattened dataset as JSON.
func convertFiles(ctx context.Context, eventsPath, metaPath, rosterPath, system, outPath string) error {
	target, err := coordinates.ParseSystem(system)
	if err != nil {
		return err
	}

	eventFile, err := os.Open(eventsPath)
	if err != nil {
		return fmt.Errorf("open event document: %w", err)
	}
	defer eventFile.Close()

	metaFile, err := os.Open(metaPath)
	if err != nil {
		return fmt.Errorf("open metadata document: %w", err)
	}
	defer metaFile.Close()

	rosterFile, err := os.Open(rosterPath)
	if err != nil {
		return fmt.Errorf("open roster document: %w", err)
	}
	defer rosterFile.Close()

	d := pff.New(
		pff.WithCoordinateSystem(target),
		pff.WithLogger(logger.Get().Named("pipeline")),
	)
	dataset, err := d.Deserialize(ctx, pff.Input{
		EventData:  eventFile,
		MetaData:   metaFile,
		RosterData: rosterFile,
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(types.DatasetFromModel(dataset)); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	logger.Get().Info(ctx, "match converted",
		logger.String("gameID", dataset.Metadata.GameID),
		logger.Int("events", len(dataset.Events)),
		logger.String("coordinateSystem", dataset.Metadata.CoordinateSystem),
	)
	return nil
}

// serve runs the conversion service until the context is canceled.
func serve(ctx context.Context) {
	loggerInstance := logger.Get()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithStoreCapacity(cfg.StoreCapacity),
		app.WithCoordinateSystem(coordinates.System(cfg.CoordinateSystem)),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           http.MaxBytesHandler(mux, cfg.MaxDocumentBytes),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}
