package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tabsplit/tabsplit/internal/api"
	"github.com/tabsplit/tabsplit/internal/api/middleware"
	"github.com/tabsplit/tabsplit/internal/config"
	"github.com/tabsplit/tabsplit/internal/factory"
	"github.com/tabsplit/tabsplit/internal/files"
	"github.com/tabsplit/tabsplit/internal/logging"
	"github.com/tabsplit/tabsplit/internal/ocr"
	redisstorage "github.com/tabsplit/tabsplit/internal/storage/redis"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, *logFormat)
	slog.SetDefault(logger)

	// Build factory config from the loaded configuration
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		BoltPath:    cfg.Storage.BoltPath,
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	fileStore, err := files.NewLocalStore(cfg.Receipts.Dir, logger)
	if err != nil {
		logger.Error("failed to create receipt store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	recognizer, cleanup, err := buildRecognizer(cfg.OCR)
	if err != nil {
		logger.Error("failed to create ocr provider", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		BillController:    app.BillController,
		FileStore:         fileStore,
		Recognizer:        recognizer,
		Clock:             app.Clock,
		MetricsRegistry:   registry,
		UploadLimiter:     middleware.NewRateLimiter(cfg.Uploads.RatePerSecond, cfg.Uploads.Burst, 0),
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	server := api.NewServer(router, serverCfg, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received signal", slog.String("signal", sig.String()))
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}

// buildRecognizer returns the configured OCR provider and a cleanup
// function for providers that hold a client connection
func buildRecognizer(cfg config.OCR) (ocr.Recognizer, func(), error) {
	switch cfg.Provider {
	case "gemini":
		g, err := ocr.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	default:
		// Without an OCR backend, uploads store the image but extract
		// nothing; clients use the extract endpoint with their own text
		return &ocr.StaticRecognizer{}, func() {}, nil
	}
}
