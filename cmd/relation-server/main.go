package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JamesPrial/relation-graph-core/internal/relations"
	"github.com/JamesPrial/relation-graph-core/internal/storage"
	"github.com/JamesPrial/relation-graph-core/internal/transport"
	"github.com/JamesPrial/relation-graph-core/pkg/config"
	"github.com/JamesPrial/relation-graph-core/pkg/logging"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logConfig := logging.DefaultConfig()
	if cfg.LogLevel != "" {
		logConfig.Level = logging.ParseLevel(cfg.LogLevel)
	}
	if err := logging.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Shutdown()

	logger := logging.GetGlobalLogger("main")

	store, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create relation store: %v", err)
	}
	defer store.Close()

	service := relations.NewService(store, cfg.Query.MaxConcurrentFetches)
	handler := transport.NewHandler(service)
	httpTransport := transport.NewHTTPTransport(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Relation graph server starting")
	if err := httpTransport.Start(ctx, handler.HandleRequest); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	logger.Info("Relation graph server stopped")
}
