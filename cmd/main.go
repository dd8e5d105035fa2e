package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/carlosmoliv/shopping-cart/internal/cache"
	carthttp "github.com/carlosmoliv/shopping-cart/internal/http"
	"github.com/carlosmoliv/shopping-cart/internal/inventory"
	"github.com/carlosmoliv/shopping-cart/internal/publisher"
	"github.com/carlosmoliv/shopping-cart/internal/repository"
	"github.com/carlosmoliv/shopping-cart/internal/service"
)

type config struct {
	Web struct {
		Addr            string        `conf:"default::8080"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:10s"`
		ShutdownTimeout time.Duration `conf:"default:20s"`
	}
	Storage string `conf:"default:mongo,help:mongo or memory"`
	Mongo   struct {
		URI string `conf:"default:mongodb://localhost:27017"`
		DB  string `conf:"default:cartdb"`
	}
	Redis struct {
		Addr     string `conf:"default:localhost:6379"`
		Password string `conf:"noprint"`
	}
	Kafka struct {
		Brokers []string `conf:"default:localhost:9092"`
	}
	Inventory struct {
		URL     string        `conf:"default:http://localhost:8081"`
		Timeout time.Duration `conf:"default:3s"`
	}
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	var cfg config
	if help, err := conf.Parse("CART", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	ctx := context.Background()

	var repo repository.CartRepository
	switch cfg.Storage {
	case "memory":
		repo = repository.NewMemoryRepository()
		log.Info("using in-memory cart storage")
	default:
		mongoDB, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
		if err != nil {
			return fmt.Errorf("connecting to MongoDB: %w", err)
		}
		defer mongoDB.Client().Disconnect(ctx)

		mongoRepo := repository.NewMongoRepository(mongoDB)
		if err := mongoRepo.CreateIndexes(ctx); err != nil {
			return fmt.Errorf("creating indexes: %w", err)
		}
		repo = mongoRepo
		log.Info("connected to MongoDB", zap.String("uri", cfg.Mongo.URI))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	kafkaPublisher := publisher.NewKafkaPublisher(log, cfg.Kafka.Brokers...)
	defer kafkaPublisher.Close()

	inventoryClient := inventory.NewHTTPClient(cfg.Inventory.URL, cfg.Inventory.Timeout, log)
	cartCache := cache.NewRedisCache(redisClient)
	cartService := service.NewCartService(repo, inventoryClient, kafkaPublisher, cartCache, log)
	cartHandler := carthttp.NewCartHandler(cartService, log)

	router := chi.NewRouter()
	router.Use(carthttp.RequestIDMiddleware)
	router.Use(carthttp.LoggingMiddleware(log))
	cartHandler.Routes(router)

	server := &http.Server{
		Addr:         cfg.Web.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("cart service listening", zap.String("addr", cfg.Web.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down cart service", zap.Stringer("signal", sig))

		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Web.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	log.Info("cart service stopped")
	return nil
}
