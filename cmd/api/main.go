package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/membership-api/internal/config"
	dbpkg "github.com/BruksfildServices01/membership-api/internal/db"
	"github.com/BruksfildServices01/membership-api/internal/logging"
	"github.com/BruksfildServices01/membership-api/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logging.Initialize(cfg.LogLevel, cfg.LogFormat)

	var db *gorm.DB
	if cfg.StorageDriver != "memory" {
		var err error
		if db, err = dbpkg.NewDB(cfg); err != nil {
			log.Error("database unavailable", "error", err)
			os.Exit(1)
		}
	}

	infra, closeInfra, err := routes.NewInfra(db, cfg, log)
	if err != nil {
		log.Error("failed to build infrastructure", "error", err)
		os.Exit(1)
	}
	defer closeInfra()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	shutdown, err := routes.RegisterRoutes(r, infra, cfg, log)
	if err != nil {
		log.Error("failed to register routes", "error", err)
		os.Exit(1)
	}
	defer shutdown()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
