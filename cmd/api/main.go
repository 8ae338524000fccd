package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/httpx"
	kafkax "restaurant-pos/internal/kafka"
	"restaurant-pos/internal/pos"
	"restaurant-pos/internal/postgres"
	"restaurant-pos/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, pos.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, pos.TopicOrderStatusChanged, 1024)
	pStatus.Start(ctx)

	// Store, settings, lifecycle manager
	repo := &pos.Repo{DB: db}
	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	if cfg.Currency != "" {
		settings.Currency = cfg.Currency
	}
	if cfg.TaxRateBps > 0 {
		settings.TaxRateBps = cfg.TaxRateBps
	}
	policy := pos.TransitionPolicy{AllowDirectBilling: cfg.AllowDirectBilling}
	mgr := pos.NewManager(repo, policy, settings, pCreated, pStatus, cfg.ServiceName)

	// Handlers
	router := httpx.NewRouter()
	(&httpx.CartHandler{
		Carts:   pos.NewCartRegistry(),
		Catalog: repo,
		Manager: mgr,
	}).Register(router)
	(&httpx.OrdersHandler{
		Manager:     mgr,
		Catalog:     repo,
		Redis:       rdb,
		UrgentAfter: cfg.UrgentAfter,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// flush queued events before stopping the producer loops
	pCreated.Close()
	pStatus.Close()
	pCreated.WaitClosed()
	pStatus.WaitClosed()
	cancel()
}
