package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/grocery_shop/internal/cart"
	"github.com/Skotchmaster/grocery_shop/internal/config"
	"github.com/Skotchmaster/grocery_shop/internal/db"
	"github.com/Skotchmaster/grocery_shop/internal/es"
	"github.com/Skotchmaster/grocery_shop/internal/httpserver"
	"github.com/Skotchmaster/grocery_shop/internal/live"
	"github.com/Skotchmaster/grocery_shop/internal/logging"
	loggingmw "github.com/Skotchmaster/grocery_shop/internal/middleware/logging"
	"github.com/Skotchmaster/grocery_shop/internal/mykafka"
	"github.com/Skotchmaster/grocery_shop/internal/redisx"
	"github.com/Skotchmaster/grocery_shop/internal/render"
	"github.com/Skotchmaster/grocery_shop/internal/repo"
	"github.com/Skotchmaster/grocery_shop/internal/search"
	"github.com/Skotchmaster/grocery_shop/internal/service"
	"github.com/Skotchmaster/grocery_shop/internal/validation"
)

func main() {
	cfg := config.Load()
	config.MustValidate(cfg)

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	r := &repo.GormRepo{DB: gdb}

	var carts cart.Store = cart.NewMemoryStore()
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = redisx.New(context.Background(), cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		carts = cart.NewRedisStore(rdb)
	} else {
		logger.Warn("REDIS_ADDR is empty, carts are kept in memory")
	}

	runCtx, stopRun := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer stopRun()

	hub := live.NewHub()
	publishers := live.Multi{hub}
	var producer *mykafka.Producer
	var consumer *mykafka.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		origin := uuid.NewString()
		publishers = append(publishers, &live.KafkaPublisher{Producer: producer, Topic: cfg.KafkaTopic, Origin: origin})

		// every instance joins its own group so it sees all changes
		consumer = mykafka.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName+"-live-"+origin, cfg.KafkaTopic)
		relay := &live.Relay{Hub: hub, Origin: origin}
		go func() {
			if err := consumer.Run(logging.Component(runCtx, "live_relay"), relay.Handle); err != nil {
				logger.Error("kafka_relay_stopped", "error", err)
			}
		}()
	}

	storefront := &service.StorefrontService{Repo: r, Carts: carts}
	admin := &service.AdminService{Repo: r, Live: publishers}
	if cfg.ESURL != "" {
		client, err := es.NewClient(es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		idx := &search.Index{ES: client, Index: cfg.ESIndex}
		storefront.Searcher = idx
		admin.Indexer = idx
	}

	auth := &service.AuthService{Repo: r, JWTSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}
	if err := auth.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.Echo{}
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		DB:           gdb,
		Auth:         auth,
		Storefront:   storefront,
		Checkout:     &service.CheckoutService{Repo: r, Carts: carts, Live: publishers, WhatsAppPhone: cfg.WhatsAppPhone},
		Admin:        admin,
		Hub:          hub,
		Renderer:     render.MustNew(),
		JWTSecret:    cfg.JWTAccessSecret,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("shop listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}

	stopRun()
	if consumer != nil {
		_ = consumer.Close()
	}
	if producer != nil {
		_ = producer.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = db.Close(gdb)

	logger.Info("shop stopped")
}
