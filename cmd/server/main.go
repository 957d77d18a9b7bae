package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmarkhas/storefront/internal/config"
	"github.com/dmarkhas/storefront/internal/es"
	"github.com/dmarkhas/storefront/internal/events"
	"github.com/dmarkhas/storefront/internal/httpserver"
	"github.com/dmarkhas/storefront/internal/logging"
	authmw "github.com/dmarkhas/storefront/internal/middleware/auth"
	"github.com/dmarkhas/storefront/internal/middleware/csrf"
	"github.com/dmarkhas/storefront/internal/middleware/loggingmw"
	"github.com/dmarkhas/storefront/internal/payment"
	"github.com/dmarkhas/storefront/internal/repo"
	"github.com/dmarkhas/storefront/internal/service"
	"github.com/dmarkhas/storefront/internal/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(cfg.REFRESH_SECRET, "REFRESH_SECRET")
	config.MustNonEmpty(cfg.STRIPE_KEY, "STRIPE_KEY")

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	r := repo.New(db)
	jwtSecret := []byte(cfg.JWT_SECRET)
	refreshSecret := []byte(cfg.REFRESH_SECRET)

	catalog := &service.CatalogService{Repo: r, Events: producer, ESIndex: cfg.ES_INDEX}
	var searchHTTP *httpserver.SearchHTTP
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		catalog.ES = esClient
		searchHTTP = &httpserver.SearchHTTP{ES: esClient, Index: cfg.ES_INDEX}
	}

	cart := &service.CartService{Repo: r, Events: producer}
	checkout := &service.CheckoutService{
		Repo:     r,
		Cart:     cart,
		Payments: payment.NewStripeClient(cfg.STRIPE_KEY),
		Events:   producer,
		Currency: cfg.Currency,
	}
	invoices := &service.InvoiceService{Repo: r, Dir: cfg.InvoicesDir}
	auth := &service.AuthService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Events: producer}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(csrf.Middleware(csrf.Config{
		SkipPaths: []string{"/signup", "/login", "/refresh"},
	}))
	e.Static("/images", cfg.UploadsDir)

	deps := httpserver.Deps{
		Guard:  &authmw.Guard{JWTSecret: jwtSecret},
		Auth:   &httpserver.AuthHTTP{Svc: auth},
		Admin:  &httpserver.AdminHTTP{Svc: catalog, Validate: validation.New(), UploadsDir: cfg.UploadsDir},
		Shop:   &httpserver.ShopHTTP{Catalog: catalog, Cart: cart},
		Orders: &httpserver.OrderHTTP{Checkout: checkout, Invoices: invoices},
		Search: searchHTTP,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down")

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

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown_complete")
}
