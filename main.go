package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yumyai/methmmdb/logger"
	"github.com/yumyai/methmmdb/pkg/config"
	mydb "github.com/yumyai/methmmdb/pkg/db"
	"github.com/yumyai/methmmdb/pkg/handler"
	"github.com/yumyai/methmmdb/pkg/middle"
	"github.com/yumyai/methmmdb/pkg/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	VERSION         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {

	// Establish logger, re-initialised below once LOG_LEVEL is known
	if err := logger.InitLogger(zapcore.InfoLevel); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	// Try load env
	if dotenvErr := godotenv.Load(); dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	settings, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	level, err := logger.ParseLevel(settings.LogLevel)
	if err != nil {
		logger.Warn("Unknown LOG_LEVEL, using INFO", zap.String("LOG_LEVEL", settings.LogLevel))
	}
	if err := logger.InitLoggerWithFile(level, settings.LogFile); err != nil {
		panic(err)
	}

	logger.Info("Start:", zap.String("Version", VERSION))

	app := loadApp(settings)
	if app.Catalog != nil {
		defer app.Catalog.Close()
	}

	mux := handler.NewRouter(app)
	root := middle.Chain(mux,
		middle.RequestIDMiddleware(logger.L()),
		middle.LoggingMiddleware(logger.L()),
		middle.CORSMiddleware(middle.CORSOptions{
			AllowedOrigins:   settings.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowCredentials: true,
			MaxAge:           10 * time.Minute,
		}),
	)

	srv := &http.Server{
		Addr:              settings.ListenAddr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := serve(srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// loadApp reads the HMM collection and metadata once. Both are read-only for
// the life of the process.
func loadApp(settings *config.Settings) *handler.AppContext {
	hmms, err := mydb.OpenHMMDB(settings.HMMDBPath)
	if err != nil {
		logger.Fatal("Failed to load HMM database", zap.String("path", settings.HMMDBPath), zap.Error(err))
	}
	if hmms.Len() == 0 {
		logger.Warn("HMM database is empty, searches will be rejected", zap.String("path", settings.HMMDBPath))
	} else {
		logger.Info("Loaded HMM database", zap.String("path", settings.HMMDBPath), zap.Int("models", hmms.Len()))
	}

	metadata, err := mydb.OpenMetadata(settings.MetadataPath)
	if err != nil {
		logger.Fatal("Failed to load metadata", zap.String("path", settings.MetadataPath), zap.Error(err))
	}
	logger.Info("Loaded metadata", zap.String("path", settings.MetadataPath), zap.Int("records", metadata.Len()))

	var catalog *mydb.Catalog
	if settings.CatalogPath != "" {
		catalog, err = mydb.OpenCatalog(settings.CatalogPath)
		if err != nil {
			logger.Fatal("Failed to open model catalog", zap.String("path", settings.CatalogPath), zap.Error(err))
		}
		logger.Info("Open model catalog on", zap.String("path", settings.CatalogPath))
	}

	cpus := settings.NumCPUs
	pipelines, err := model.NewPipelineCache(model.DefaultPipelineCacheSize, func(evalue float64) model.Engine {
		logger.Debug("New search pipeline", zap.Float64("evalue", evalue))
		return model.NewPipeline(settings.HMMSearchBin, evalue, cpus)
	})
	if err != nil {
		logger.Fatal("Failed to create pipeline cache", zap.Error(err))
	}

	return &handler.AppContext{
		HMMs:          hmms,
		Metadata:      metadata,
		Catalog:       catalog,
		Searcher:      model.NewSearcher(hmms, metadata, pipelines),
		DefaultEValue: settings.DefaultEValue,
		MaxEValue:     settings.MaxEValue,
	}
}

// serve runs srv until SIGINT/SIGTERM, then lets in-flight searches finish
// within shutdownTimeout.
func serve(srv *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting on", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}
