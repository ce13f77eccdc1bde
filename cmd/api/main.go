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

	"github.com/keinest/ecommerce-flow/internal/cart"
	"github.com/keinest/ecommerce-flow/internal/checkout"
	"github.com/keinest/ecommerce-flow/internal/config"
	"github.com/keinest/ecommerce-flow/internal/httpx"
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
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers: one per topic
	pPlaced := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderPlaced, 1024)
	pPlaced.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicStatusChanged, 1024)
	pStatus.Start(ctx)

	// Repos & services
	repo := &market.Repo{DB: db}
	cartStore := &cart.Store{Redis: rdb, Catalog: repo}
	svc := &checkout.Service{
		Cart:           cartStore,
		Catalog:        repo,
		Orders:         repo,
		ProducerPlaced: pPlaced,
		ProducerStatus: pStatus,
		ServiceName:    cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Repo: repo, Checkout: svc, Redis: rdb}).Register(router)
	(&httpx.CartHandler{Cart: cartStore}).Register(router)
	(&httpx.NotificationsHandler{Repo: &notify.Repo{DB: db}}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pPlaced.Close() // close inbox -> flush & close writer
	pStatus.Close()
	cancel()
	pPlaced.WaitClosed() // drain
	pStatus.WaitClosed()
}
