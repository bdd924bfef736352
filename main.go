package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/coffeeshop-server/config"
	"github.com/yeremiapane/coffeeshop-server/database"
	"github.com/yeremiapane/coffeeshop-server/router"
	"github.com/yeremiapane/coffeeshop-server/server"
	"github.com/yeremiapane/coffeeshop-server/services"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

const shutdownTimeout = 10 * time.Second

func init() {
	// Load .env file di awal sebelum apapun
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	db, err := config.InitDB(cfg.Database, cfg.Tracing)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	prepareDatabase(db, cfg.Database)

	redisClient := config.NewRedisClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
		utils.InfoLogger.Printf("Catalog cache enabled (%s)", cfg.Redis.Addr)
	}
	cache := services.NewCatalogCache(redisClient, cfg.Redis.TTL)

	if !cfg.Orders.AtomicWrites {
		utils.InfoLogger.Warn("ORDER_ATOMIC_WRITES=false: order writes are not rolled back on partial failure")
	}

	r := router.SetupRouter(db, router.Options{
		AtomicOrderWrites: cfg.Orders.AtomicWrites,
		Cache:             cache,
	})
	srv := server.New(cfg.Server, r)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		utils.ErrorLogger.Fatal(err)
	case sig := <-quit:
		utils.InfoLogger.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Shutdown: %v", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, server.ErrServerClosed) {
		utils.ErrorLogger.Printf("Server stopped: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func prepareDatabase(db *gorm.DB, cfg config.DatabaseConfig) {
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
		}
	}
	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			utils.ErrorLogger.Printf("Error seeding catalogue: %v", err)
		}
	}
}
