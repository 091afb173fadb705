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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tiflun/storefront/internal/cart"
	"github.com/tiflun/storefront/internal/config"
	"github.com/tiflun/storefront/internal/es"
	"github.com/tiflun/storefront/internal/events"
	"github.com/tiflun/storefront/internal/hash"
	"github.com/tiflun/storefront/internal/httpserver"
	"github.com/tiflun/storefront/internal/logging"
	"github.com/tiflun/storefront/internal/repo"
	"github.com/tiflun/storefront/internal/service"
	"github.com/tiflun/storefront/internal/service/search"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	ctx := logging.IntoContext(context.Background(), logger)

	client, err := repo.Connect(ctx, configuration.MONGO_URL)
	if err != nil {
		log.Fatalf("mongo init: %v", err)
	}
	db := client.Database(configuration.MONGO_DB)

	adminRepo := &repo.AdminRepo{DB: db}
	if configuration.ADMIN_EMAIL != "" && configuration.ADMIN_PASSWORD != "" {
		passwordHash, err := hash.HashPassword(configuration.ADMIN_PASSWORD)
		if err != nil {
			log.Fatalf("admin seed: %v", err)
		}
		if err := adminRepo.EnsureAdmin(ctx, configuration.ADMIN_EMAIL, passwordHash); err != nil {
			log.Fatalf("admin seed: %v", err)
		}
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer(configuration.KAFKA_ADDRESS)
	}

	var searchSvc *search.Service
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration.ES_URL, configuration.ES_USER, configuration.ES_PASSWORD)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		searchSvc = &search.Service{ES: esClient, Index: search.DefaultIndex}
	}

	productRepo := &repo.ProductRepo{DB: db}
	orderRepo := &repo.OrderRepo{Client: client, DB: db, NumberPrefix: configuration.ORDER_PREFIX}
	kv := &repo.KVStore{DB: db}

	catalog := &service.Catalog{Repo: productRepo, Producer: eventSink(producer), Index: indexSink(searchSvc)}
	orders := &service.Orders{Repo: orderRepo, Producer: eventSink(producer)}
	auth := &service.Auth{Repo: adminRepo, JWTSecret: []byte(configuration.JWT_SECRET)}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	httpserver.Register(e, &httpserver.Deps{
		Catalog:   catalog,
		Orders:    orders,
		Auth:      auth,
		Search:    searchSvc,
		Carts:     &cart.Keeper{Store: kv},
		JWTSecret: []byte(configuration.JWT_SECRET),
	})

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}

	log.Println("shutdown complete")
}

// eventSink keeps a typed nil out of the service interfaces when kafka is
// not configured.
func eventSink(p *events.Producer) service.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func indexSink(s *search.Service) service.Indexer {
	if s == nil {
		return nil
	}
	return s
}
