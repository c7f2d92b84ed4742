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
	"github.com/stwalsh4118/helios/internal/config"
	"github.com/stwalsh4118/helios/internal/database"
	"github.com/stwalsh4118/helios/internal/engine"
	"github.com/stwalsh4118/helios/internal/handlers"
	"github.com/stwalsh4118/helios/internal/irradiance"
	"github.com/stwalsh4118/helios/internal/logger"
	"github.com/stwalsh4118/helios/internal/repository"
	"github.com/stwalsh4118/helios/internal/services"
	"github.com/stwalsh4118/helios/internal/utility"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting Helios API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	catalog := engine.DefaultCatalog()
	if cfg.Catalog.File != "" {
		catalog, err = engine.LoadCatalog(cfg.Catalog.File)
		if err != nil {
			log.Fatal("Failed to load equipment catalog", err, map[string]interface{}{
				"file": cfg.Catalog.File,
			})
		}
		log.Info("Equipment catalog loaded", map[string]interface{}{"file": cfg.Catalog.File})
	}
	eng := engine.New(catalog, engine.WithUtilityLookup(utility.NewDirectory()))

	var provider irradiance.Provider
	source := irradiance.SourceFallback
	if cfg.Irradiance.Enabled() {
		provider = irradiance.NewHTTPProvider(cfg.Irradiance.APIURL, cfg.Irradiance.APIKey, cfg.Irradiance.Timeout)
		source = irradiance.SourcePVWatts
	}
	resolver := irradiance.NewResolver(provider, cfg.Irradiance.CacheTTL, cfg.Irradiance.Timeout, log)
	log.Info("Irradiance source configured", map[string]interface{}{
		"source":    source,
		"cache_ttl": cfg.Irradiance.CacheTTL.String(),
	})

	// Everything persistence-related stays nil when history is disabled.
	var (
		pinger   handlers.Pinger
		repo     repository.CalculationRepository
		recorder services.CalculationRecorder
		rec      *services.Recorder
	)

	ctx := context.Background()
	if cfg.Persistence.Enabled {
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to apply database schema", err, nil)
		}

		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})

		pinger = db
		repo = repository.NewCalculationRepository(db)
		rec = services.NewRecorder(repo, log, cfg.Persistence.Timeout, cfg.Persistence.MaxInflight)
		recorder = rec
	} else {
		log.Warn("Calculation history disabled", nil)
	}

	calculationService := services.NewCalculationService(eng, resolver, recorder, repo, log)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(
		log,
		cfg.CORS.Origins,
		handlers.NewHealthHandler(pinger, cfg.Server.Env, source),
		handlers.NewCalculationHandler(calculationService),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	if rec != nil {
		if err := rec.Wait(shutdownCtx); err != nil {
			log.Error("Pending calculation saves did not finish", err, nil)
		}
	}

	log.Info("Server exited", nil)
}
