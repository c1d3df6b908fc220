package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/config"
	"github.com/ooad/textile-shop/internal/es"
	"github.com/ooad/textile-shop/internal/handlers"
	"github.com/ooad/textile-shop/internal/handlers/cart"
	"github.com/ooad/textile-shop/internal/hash"
	"github.com/ooad/textile-shop/internal/logging"
	"github.com/ooad/textile-shop/internal/metrics"
	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/mykafka"
	"github.com/ooad/textile-shop/internal/otp"
	"github.com/ooad/textile-shop/internal/service/checkout"
	"github.com/ooad/textile-shop/internal/service/report"
	"github.com/ooad/textile-shop/internal/service/token"
	"github.com/ooad/textile-shop/internal/storage"
	httpserver "github.com/ooad/textile-shop/internal/transport/http"
)

const productIndex = "products"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL).With("service", "textile-shop")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := bootstrapAdmin(db, cfg); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	var producer mykafka.Publisher = mykafka.Nop{}
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(strings.Split(cfg.KAFKA_ADDRESS, ","))
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	files, err := storage.NewFileStore(cfg.IMAGES_DIR)
	if err != nil {
		log.Fatalf("file store: %v", err)
	}

	tokens := &token.TokenService{
		DB:            db,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}
	checkoutSvc := &checkout.Service{DB: db, Receipts: files}
	reportSvc := &report.Service{DB: db}

	serverMetrics := metrics.NewServerMetrics("textile_shop")

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(serverMetrics.Middleware)

	httpserver.Register(e, &httpserver.Deps{
		Auth: &handlers.AuthHandler{
			DB:            db,
			JWTSecret:     []byte(cfg.JWT_SECRET),
			RefreshSecret: []byte(cfg.REFRESH_SECRET),
			Producer:      producer,
			OTP:           otp.NewStore(otp.DefaultTTL, otp.DefaultCapacity),
			Sender:        handlers.LogOTPSender{},
		},
		Products:  &handlers.ProductHandler{DB: db, Producer: producer, ES: esClient, Index: productIndex, Files: files},
		Suppliers: &handlers.SupplierHandler{DB: db},
		Cart:      &cart.CartHandler{DB: db, Producer: producer},
		Checkout:  &handlers.CheckoutHandler{Service: checkoutSvc, Producer: producer},
		Orders:    &handlers.OrderHandler{DB: db, Producer: producer},
		Complaint: &handlers.ComplaintHandler{DB: db},
		Report:    &handlers.ReportHandler{Service: reportSvc},
		Search:    &handlers.SearchHandler{ES: esClient, Index: productIndex},
		Wardrobe:  &handlers.WardrobeHandler{DB: db, Files: files},
		Tokens:    tokens,
		ImagesDir: cfg.IMAGES_DIR,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP_ADDR,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if closer, ok := producer.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server stopped")
}

// bootstrapAdmin makes sure one admin account exists. Startup credentials
// come from the environment, nothing is created when they are absent.
func bootstrapAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.ADMIN_USERNAME == "" || cfg.ADMIN_PASSWORD == "" {
		return nil
	}

	var existing models.User
	err := db.Where("username = ?", cfg.ADMIN_USERNAME).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := hash.HashPassword(cfg.ADMIN_PASSWORD)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     cfg.ADMIN_USERNAME,
		Email:        cfg.ADMIN_EMAIL,
		PasswordHash: passwordHash,
		Role:         "admin",
	}
	return db.Create(&admin).Error
}
