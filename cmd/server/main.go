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

	"github.com/AbuzarGhazanfarKhan/storefront/internal/config"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/es"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/events"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/handlers"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/handlers/cart"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/logging"
	loggingmw "github.com/AbuzarGhazanfarKhan/storefront/internal/middleware/logging"
	cartsvc "github.com/AbuzarGhazanfarKhan/storefront/internal/service/cart"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/catalog"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/checkout"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/search"
	"github.com/AbuzarGhazanfarKhan/storefront/internal/service/token"
	httpserver "github.com/AbuzarGhazanfarKhan/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod := events.NewProducer([]string{configuration.KAFKA_ADDRESS})

	var searchIndex search.Indexer
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchIndex = search.NewESIndex(esClient, "products")
	}

	tokenService := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	catalogService := &catalog.Service{DB: db}
	cartService := &cartsvc.Service{DB: db}
	checkoutService := &checkout.Service{DB: db, Producer: prod}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:       &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler:    &handlers.ProductHandler{DB: db, Catalog: catalogService, Producer: prod, Search: searchIndex},
		CollectionHandler: &handlers.CollectionHandler{DB: db, Catalog: catalogService},
		ReviewHandler:     &handlers.ReviewHandler{DB: db},
		ImageHandler:      &handlers.ProductImageHandler{DB: db},
		CustomerHandler:   &handlers.CustomerHandler{DB: db},
		OrderHandler:      &handlers.OrderHandler{DB: db, Checkout: checkoutService},
		CartHandler:       &cart.CartHandler{Svc: cartService, Producer: prod},
		TokenService:      tokenService,
	}
	if searchIndex != nil {
		deps.SearchHandler = &handlers.SearchHandler{Index: searchIndex}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
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
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
