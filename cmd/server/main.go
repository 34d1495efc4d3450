package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/badaskaptan/kargomarket-sub000/internal/auth"
	"github.com/badaskaptan/kargomarket-sub000/internal/config"
	"github.com/badaskaptan/kargomarket-sub000/internal/database"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/model"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/router"
	"github.com/badaskaptan/kargomarket-sub000/internal/listing/service"
	"github.com/badaskaptan/kargomarket-sub000/internal/middleware"
	"github.com/badaskaptan/kargomarket-sub000/internal/uploads"
)

func main() {
	// Load .env in development; missing file is fine in deployed environments
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
		"storage_type", cfg.Storage.Type,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	if err := db.AutoMigrate(&model.Listing{}); err != nil {
		log.Fatalf("failed to migrate listing schema: %v", err)
	}

	// Initialize object storage
	ctx := context.Background()
	storageDriver, err := uploads.NewStorageFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	uploadService := uploads.NewUploadService(storageDriver)

	// Wire the listing submission workflow
	listingRepo := service.NewGormListingRepository(db)
	listingRouter := router.NewListingRouter(listingRepo, uploadService, service.SlogNotifier{}, cfg.Uploads)

	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	requireAuth := auth.RequireAuth(verifier)

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/schema/{mode}", listingRouter.HandleGetSchema)
	mux.Handle("POST /api/listings", requireAuth(http.HandlerFunc(listingRouter.HandleCreateListing)))
	mux.Handle("PUT /api/listings/{listingID}", requireAuth(http.HandlerFunc(listingRouter.HandleUpdateListing)))
	mux.Handle("GET /api/listings", requireAuth(http.HandlerFunc(listingRouter.HandleGetListings)))
	mux.Handle("GET /api/listings/{listingID}", requireAuth(http.HandlerFunc(listingRouter.HandleGetListing)))
	mux.Handle("DELETE /api/listings/{listingID}/files", requireAuth(http.HandlerFunc(listingRouter.HandleRemoveListingAsset)))

	// Serve stored objects when the local filesystem driver is in play
	uploadHandler := uploads.NewHTTPHandler(uploadService)
	mux.HandleFunc("GET /api/uploads/{key...}", uploadHandler.Download)

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	// Wrap handler with CORS middleware
	handler := middleware.CORS(&cfg.CORS)(mux)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
