package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainrepo "flightquery-service/internal/domain/repository"
	"flightquery-service/internal/infrastructure/config"
	"flightquery-service/internal/infrastructure/persistence"
	mcpserver "flightquery-service/internal/interface/mcp"
	"flightquery-service/internal/interface/repository"
	"flightquery-service/internal/usecase"
	"flightquery-service/pkg/logger"
	"flightquery-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flight Query Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Airport reference data: PostgreSQL when configured, built-in map otherwise
	var airportRepo domainrepo.AirportRepository
	if cfg.PostgresDSN != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airportRepo = repository.NewGormAirportRepository(gormDB)
		log.Info("Using PostgreSQL airport reference data")
	} else {
		airportRepo = repository.NewStaticAirportRepository()
		log.Info("Using built-in airport reference data")
	}

	// User context store: MongoDB when configured, in-memory otherwise
	var contextRepo domainrepo.UserContextRepository
	var mongoClient *mongo.Client
	if cfg.ContextStore == "mongo" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		contextRepo = repository.NewMongoUserContextRepository(db, cfg.ContextTTL)
	} else {
		contextRepo = repository.NewMemoryUserContextRepository(cfg.ContextTTL)
		log.Info("Using in-memory user context store", "ttl", cfg.ContextTTL)
	}

	// Set up services
	flightSource := repository.NewCSVFlightSource(cfg.DataDir, log)
	flightService := usecase.NewFlightQueryService(flightSource, airportRepo, log)
	contextService := usecase.NewContextService(contextRepo, log)

	// Preload datasets named in the configuration
	for _, name := range cfg.PreloadDatasets {
		if _, err := flightService.LoadDataset(ctx, name); err != nil {
			log.Error("Failed to preload dataset", "dataset", name, "error", err)
		}
	}

	// Set up metrics and the MCP server
	m := metrics.NewMetrics("flightquery")
	mcpSrv := mcpserver.New(flightService, contextService, m, log)

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Serve MCP in a goroutine so signal handling stays in main
	mcpDone := make(chan error, 1)
	go func() {
		switch mcpserver.Transport(cfg.MCPTransport) {
		case mcpserver.TransportHTTP:
			mcpDone <- mcpSrv.ServeHTTP(ctx, cfg.MCPAddr)
		default:
			mcpDone <- mcpSrv.ServeStdio(ctx)
		}
	}()

	// Wait for interrupt signal or MCP transport exit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal", "signal", sig)
	case err := <-mcpDone:
		if err != nil {
			log.Error("MCP server error", "error", err)
		} else {
			log.Info("MCP server finished")
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop the MCP transport

	// Disconnect from MongoDB
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Flight Query Service stopped")
}
