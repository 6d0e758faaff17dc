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

	"dashboard/internal/config"
	httpapi "dashboard/internal/http"
	"dashboard/internal/logger"
	"dashboard/internal/repository"
	"dashboard/internal/storage"

	_ "dashboard/docs"
)

// @title Store admin API
// @version 1.0
// @description Catalog, orders and storefront content of the store admin dashboard.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.GetAppLogger()
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	log = logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, err := newFirebaseApp(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("firebase")
	}
	store, closeStore, err := openStore(ctx, cfg, app)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.StoreBackend).Fatal("open store")
	}
	locks, closeLocks, err := newLocker(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("locker")
	}
	authn, err := newAuthProvider(ctx, cfg, app)
	if err != nil {
		log.WithError(err).Fatal("auth provider")
	}
	blobs, uploadDir, err := newBlobStore(ctx, cfg, app)
	if err != nil {
		log.WithError(err).Fatal("blob store")
	}
	uploads := storage.NewUploader(blobs, cfg.UploadMaxBytes,
		repository.Categories, repository.Products, repository.Brands, repository.PromoImages)

	srv := httpapi.NewServer(newServices(store, locks, policies(cfg)), authn, uploads, httpapi.Config{
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   uploadDir,
	})

	httpServer := &http.Server{
		Addr:    cfg.Address,
		Handler: srv.Engine(),
	}

	go func() {
		log.WithField("store", cfg.StoreBackend).Infof("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
	if err := closeLocks(shutdownCtx); err != nil {
		log.WithError(err).Warn("close locker")
	}
	if err := closeStore(shutdownCtx); err != nil {
		log.WithError(err).Warn("close store")
	}
}
