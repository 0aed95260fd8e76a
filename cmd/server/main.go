package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fatihashop/storefront/internal/config"
	"github.com/fatihashop/storefront/internal/es"
	"github.com/fatihashop/storefront/internal/handlers"
	"github.com/fatihashop/storefront/internal/logging"
	authmw "github.com/fatihashop/storefront/internal/middleware/auth"
	"github.com/fatihashop/storefront/internal/mykafka"
	searchsvc "github.com/fatihashop/storefront/internal/service/search"
	"github.com/fatihashop/storefront/internal/session"
	httpserver "github.com/fatihashop/storefront/internal/transport/http"
	"github.com/fatihashop/storefront/internal/view"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel, configuration.LogFormat)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := config.Bootstrap(db, configuration); err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: configuration.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis ping error: %v", err)
	}

	sessions := session.NewManager(
		redisClient,
		"storefront_session",
		configuration.SecretKey,
		configuration.SessionTTL,
		false,
		logger,
	)

	var producer *mykafka.Producer
	if configuration.KafkaAddress != "" {
		producer = mykafka.NewProducer([]string{configuration.KafkaAddress})
	}

	var searchService *searchsvc.Service
	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		searchService = searchsvc.New(esClient, "product")
	}

	renderer, err := view.NewEngine()
	if err != nil {
		log.Fatalf("template error: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	validate := validator.New()
	deps := httpserver.Deps{
		Sessions: sessions,
		Guard:    &authmw.Guard{DB: db},
		CatalogHandler: &handlers.CatalogHandler{
			DB:             db,
			WhatsAppNumber: configuration.WhatsAppNumber,
		},
		AuthHandler: &handlers.AuthHandler{DB: db, Producer: producer, Validate: validate},
		AdminHandler: &handlers.AdminHandler{
			DB:        db,
			Producer:  producer,
			Search:    searchService,
			UploadDir: configuration.UploadDir,
			Validate:  validate,
		},
		MaxUploadSize: configuration.MaxUploadSize,
		StaticDir:     "static",
	}
	if searchService != nil {
		deps.SearchHandler = &handlers.SearchHandler{Service: searchService}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.AppAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
