package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/keinest/ecommerce-flow/internal/config"
	kafkax "github.com/keinest/ecommerce-flow/internal/kafka"
	"github.com/keinest/ecommerce-flow/internal/market"
	"github.com/keinest/ecommerce-flow/internal/notify"
	"github.com/keinest/ecommerce-flow/internal/postgres"
	"github.com/keinest/ecommerce-flow/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &notify.Service{
		Store:       &notify.Repo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	// Consumers: one per topic, shared worker count
	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	consumers := []struct {
		topic   string
		handler kafkax.Handler
	}{
		{market.TopicOrderPlaced, svc.HandleOrderPlaced},
		{market.TopicStatusChanged, svc.HandleStatusChanged},
	}
	for _, c := range consumers {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, c.topic, workers)
		topic := c.topic
		handler := c.handler
		go func() {
			log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			if err := cons.Start(ctx, handler); err != nil {
				log.Printf("consumer exit: %v", err)
				cancel()
			}
		}()
	}

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumers...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

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
