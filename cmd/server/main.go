package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/avkuzmin/shopcart-backend/internal/config"
	"github.com/avkuzmin/shopcart-backend/internal/events"
	"github.com/avkuzmin/shopcart-backend/internal/handlers"
	"github.com/avkuzmin/shopcart-backend/internal/logging"
	"github.com/avkuzmin/shopcart-backend/internal/models"
	"github.com/avkuzmin/shopcart-backend/internal/search"
	httpserver "github.com/avkuzmin/shopcart-backend/internal/transport/http"
	"github.com/avkuzmin/shopcart-backend/pkg/db"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Fatal("JWT_SECRET is not set")
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer([]string{cfg.KafkaAddress})
		logger.Info("kafka producer enabled", "address", cfg.KafkaAddress)
	}

	var searchHandler *handlers.SearchHandler
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
		logger.Info("product search enabled", "url", cfg.ESURL)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(logging.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             gormDB,
		JWTSecret:      jwtSecret,
		UploadDir:      cfg.UploadDir,
		AuthHandler:    &handlers.AuthHandler{DB: gormDB, JWTSecret: jwtSecret, Producer: producer},
		ProductHandler: &handlers.ProductHandler{DB: gormDB, Producer: producer},
		CartHandler:    &handlers.CartHandler{DB: gormDB, Producer: producer},
		UploadHandler:  &handlers.UploadHandler{Dir: cfg.UploadDir, PublicURL: cfg.PublicURL},
		SearchHandler:  searchHandler,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
