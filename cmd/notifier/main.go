package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"restaurant-pos/internal/config"
	kafkax "restaurant-pos/internal/kafka"
	"restaurant-pos/internal/notify"
	"restaurant-pos/internal/pos"
	"restaurant-pos/internal/redisx"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Redis:       rdb,
		Currency:    cfg.Currency,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "pos-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	// one consumer per topic, same handler
	topics := []string{pos.TopicOrderCreated, pos.TopicOrderStatusChanged}
	errCh := make(chan error, len(topics))
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, topic, workers)
		go func() {
			errCh <- cons.Start(ctx, svc.HandleEvent)
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("shutting down notifier...")
	case err := <-errCh:
		if err != nil {
			log.Printf("consumer exit: %v", err)
		}
		cancel()
	}
}
