package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/bagaskara/tripnusa/internal/config"
	httphandler "github.com/bagaskara/tripnusa/internal/delivery/http"
	"github.com/bagaskara/tripnusa/internal/delivery/kafka"
	"github.com/bagaskara/tripnusa/internal/repository"
	"github.com/bagaskara/tripnusa/internal/usecase"
)

func main() {
	cfg := config.Load()

	pool, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, "db/migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := repository.New(pool)
	loyaltyService := usecase.NewLoyaltyService(store)

	var dispatcher usecase.AccrualDispatcher
	var producerClient *kgo.Client
	var consumerClient *kgo.Client

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EventDrivenEnabled == "true" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")

		producerClient, err = newProducerClient(brokers, cfg.KafkaClientID)
		if err != nil {
			log.Fatalf("Failed to create kafka producer client: %v", err)
		}

		if err := kafka.EnsureTopics(ctx, producerClient, cfg); err != nil {
			log.Printf("Warning: failed to ensure topics: %v", err)
		}

		dispatcher = kafka.NewPublisher(producerClient)

		consumerClient, err = newConsumerClient(
			brokers,
			cfg.KafkaClientID+"-accrual",
			cfg.KafkaGroupID,
			kafka.TopicBookingConfirmed,
		)
		if err != nil {
			log.Fatalf("Failed to create kafka consumer client: %v", err)
		}

		consumer := kafka.NewConsumer(consumerClient, loyaltyService)
		go consumer.Start(ctx)
	} else {
		dispatcher = kafka.NewDirectDispatcher(loyaltyService)
	}

	bookingService := usecase.NewBookingService(store, dispatcher)
	checkoutService := usecase.NewCheckoutService(store, bookingService)

	handler := httphandler.NewHandler(bookingService, loyaltyService, checkoutService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler.Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	if producerClient != nil {
		producerClient.Close()
	}
	if consumerClient != nil {
		consumerClient.Close()
	}

	wg.Wait()
	log.Println("Shutdown complete")
}

func initDB(cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

func newProducerClient(brokers []string, clientID string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
	)
}

func newConsumerClient(brokers []string, clientID, groupID string, topics ...string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
}
