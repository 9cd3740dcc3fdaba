// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/container"
	"github.com/presetbase/presetbase-go/internal/domain/catalog"
	"github.com/presetbase/presetbase-go/internal/infrastructure/observability/logging"
	"github.com/presetbase/presetbase-go/internal/presentation/http/server"
	"github.com/presetbase/presetbase-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("PresetBase admin engine starting...")

	// Step 1: Validate the entity configuration before anything touches it.
	if err := catalog.ValidateConfigs(); err != nil {
		return fmt.Errorf("entity configuration invalid: %w", err)
	}
	log.Printf("Entity configuration validated: %d types", len(catalog.AllEntityTypes()))

	// Step 2: Bring up channeled logging.
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	// Step 3: Create dependency injection container.
	appContainer := container.New(logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 4: Warm the cache from the persistent store.
	warmed := appContainer.Cache.Warm()
	logger.Startup().Info("Cache warmed from persistence", "entries", warmed)

	// Step 5: Start background workers.
	appContainer.Cache.StartCleanupRoutine(config.CacheCleanupInterval, config.CacheEntryMaxAge)
	appContainer.EditorService.StartJanitor(config.EditorSessionCleanupInterval, config.EditorSessionTimeout)
	go appContainer.Broadcaster.Run()
	logger.Startup().Info("Background workers started")

	// Step 6: Start HTTP server.
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"upstream", config.UpstreamBaseURL,
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	appContainer.Shutdown()

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
}
