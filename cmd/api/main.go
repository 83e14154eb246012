package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/anaf"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/config"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/database"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/delivery"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/delivery/sameday"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/handlers"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/models"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/services/lookup"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/services/oblio"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/services/shipping"
	"github.com/raduandreialin/primesupplements-oblio-sub001/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Set up structured logging
	var zapLogger *zap.Logger
	if cfg.NodeEnv == "production" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// 3. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatalw("Failed to connect to database", "error", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 4. Auto-Migrate Schema
	logger.Info("Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.CompanyLookup{},
		&models.Shipment{},
		&models.ShipmentEvent{},
		&models.Invoice{},
	)
	if err != nil {
		logger.Warnw("Migration warning", "error", err)
	} else {
		logger.Info("Schema synchronized successfully")
	}

	// 5. Registry lookup with local cache
	anafClient := anaf.NewClient(anaf.Config{
		BaseURL: cfg.ANAF.BaseURL,
		APIKey:  cfg.ANAF.APIKey,
		Timeout: cfg.ANAF.TimeoutSeconds,
		RPS:     cfg.ANAF.RPS,
	}, logger)
	lookupSvc := lookup.NewService(db, anafClient,
		time.Duration(cfg.Validation.CacheTTLMinutes)*time.Minute,
		cfg.Validation.IncludeInactive, logger)

	// 6. Carrier providers
	logger.Info("Initializing carriers...")
	samedayProvider, err := sameday.NewProvider(sameday.Config{
		BaseURL:       cfg.Sameday.BaseURL,
		Username:      cfg.Sameday.Username,
		Password:      cfg.Sameday.Password,
		PickupPointID: cfg.Sameday.PickupPointID,
		ServiceID:     cfg.Sameday.ServiceID,
		Timeout:       cfg.Sameday.TimeoutSeconds,
	}, logger)
	if err != nil {
		logger.Warnw("Sameday provider not available", "error", err)
	} else {
		if err := delivery.GetGlobalRegistry().Register(samedayProvider); err != nil {
			logger.Warnw("Failed to register Sameday provider", "error", err)
		} else {
			logger.Info("Sameday provider registered")
		}
	}

	// 7. Services
	shippingSvc := shipping.NewService(db, cfg, logger)
	oblioClient := oblio.NewClient(cfg.Oblio, logger)
	invoiceSvc := oblio.NewService(db, oblioClient, cfg, logger)

	// 8. Validation stream hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 9. HTTP router
	router := handlers.NewRouter(db, cfg, logger, lookupSvc, shippingSvc, invoiceSvc, hub)

	// 10. Background worker for pending shipments
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := shippingSvc.ProcessPendingShipments(workerCtx); err != nil {
					logger.Errorw("Shipment worker error", "error", err)
				}
			case <-workerCtx.Done():
				return
			}
		}
	}()
	logger.Info("Shipment worker started")

	// 11. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		logger.Infow("Server starting", "port", cfg.Port, "env", cfg.NodeEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	sig := <-shutdown
	logger.Infow("Shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("HTTP server shutdown error", "error", err)
	}

	stopWorker()

	logger.Info("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorw("Database close error", "error", err)
	}

	logger.Info("Shutdown complete")
}
