package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wbsview/internal/analysis"
	"wbsview/internal/api"
	"wbsview/internal/config"
	fileutil "wbsview/internal/file"
	"wbsview/internal/ui"
)

const logFileName = "app.log"

func main() {
	logFile := setupLogging()
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := fileutil.EnsureDir(cfg.DataDir); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("ensure data dir")
	}
	if err := fileutil.EnsureDir(cfg.UploadDir); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("ensure upload dir")
	}
	if cfg.AnalyzerURL == "" {
		log.Warn().Msg("analyzer_url is not set: uploads will fail until it is configured")
	}

	manager := analysis.NewManager(analysis.NewFileStore(cfg.DataDir))
	if err := manager.LoadFromDisk(); err != nil {
		log.Warn().Err(err).Msg("load records from disk")
	}

	router := setupRouter()
	wireHandlers(router, manager, cfg)

	const (
		readHeaderTimeout = 5 * time.Second
		shutdownTimeout   = 10 * time.Second
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdownSignal()
	gracefulShutdown(srv, shutdownTimeout)
}

// setupLogging writes human-readable logs to stderr and a copy to app.log.
func setupLogging() *os.File {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640) //nolint:gosec // app-owned log file
	if err != nil {
		log.Logger = log.Output(console)
		log.Warn().Err(err).Msg("log file unavailable, logging to stderr only")
	} else {
		log.Logger = log.Output(zerolog.MultiLevelWriter(console, logFile))
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	return logFile
}

func setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestLogger())
	return r
}

func wireHandlers(router *gin.Engine, manager *analysis.Manager, cfg config.Config) {
	analyzer := analysis.NewRemote(cfg.AnalyzerURL, time.Duration(cfg.AnalyzerTimeoutSeconds)*time.Second)
	apiHandler := api.NewAPI(manager, analyzer, api.Options{
		UploadDir:         cfg.UploadDir,
		MaxUploadSize:     cfg.MaxUploadSize,
		AllowedExtensions: cfg.AllowedExtensions,
	})
	apiHandler.RegisterRoutes(router)

	uiHandler := ui.NewUI(apiHandler)
	uiHandler.RegisterRoutes(router)
}

func waitForShutdownSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")
}

func gracefulShutdown(srv *http.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown warning")
	}
	log.Info().Msg("server exited cleanly")
}
