package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler/auth"
	"github.com/alexdunne/not-so-smart-cal/scheduler/config"
	"github.com/alexdunne/not-so-smart-cal/scheduler/logger"
	"github.com/alexdunne/not-so-smart-cal/scheduler/postgres"
	"github.com/alexdunne/not-so-smart-cal/scheduler/rabbitmq"
	schedRedis "github.com/alexdunne/not-so-smart-cal/scheduler/redis"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// setup signal handlers
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		cancel()
	}()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Printf("error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("error creating the logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db := postgres.NewDB(cfg.Postgres.DSN(), log)
	if err := db.Open(ctx); err != nil {
		return fmt.Errorf("cannot open db: %w", err)
	}
	defer db.Close()
	log.Info("opened postgres connection")

	producer := rabbitmq.NewProducer(cfg.AMQP.URL())
	if err := producer.Open(); err != nil {
		return fmt.Errorf("cannot open rabbitmq connection: %w", err)
	}
	defer producer.Close()
	log.Info("opened rabbitmq connection")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	log.Info("opened redis connection")

	eventService := &postgres.EventService{
		DB:        db,
		Publisher: producer,
		Validator: validator.New(),
		Logger:    log,
	}
	authService := auth.NewService(
		&postgres.UserService{DB: db},
		schedRedis.NewSessionStore(redisClient, cfg.SessionTTL),
		log,
	)

	server := NewServer(eventService, schedRedis.NewConflictStore(redisClient), authService, loc, log)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return httpServer.Shutdown(shutdownCtx)
}
