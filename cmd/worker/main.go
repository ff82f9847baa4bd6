package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexdunne/not-so-smart-cal/scheduler/audit"
	"github.com/alexdunne/not-so-smart-cal/scheduler/config"
	"github.com/alexdunne/not-so-smart-cal/scheduler/logger"
	"github.com/alexdunne/not-so-smart-cal/scheduler/postgres"
	"github.com/alexdunne/not-so-smart-cal/scheduler/rabbitmq"
	schedRedis "github.com/alexdunne/not-so-smart-cal/scheduler/redis"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	auditQueue      = "audit_event_conflicts"
	auditRoutingKey = "event.*"
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

	if err := run(ctx, cancel, cfg, log); err != nil {
		log.Fatal("worker stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, log *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db := postgres.NewDB(cfg.Postgres.DSN(), log)
	if err := db.Open(ctx); err != nil {
		return errors.Wrap(err, "cannot open db")
	}
	defer db.Close()
	log.Info("opened postgres connection")

	amqpConn, err := amqp.Dial(cfg.AMQP.URL())
	if err != nil {
		return errors.Wrap(err, "error opening rabbitmq connection")
	}
	defer amqpConn.Close()
	log.Info("opened rabbitmq connection")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	log.Info("opened redis connection")

	auditor := &audit.Auditor{
		Events: &postgres.EventService{DB: db, Logger: log},
		Store:  schedRedis.NewConflictStore(redisClient),
		Logger: log,
	}

	job := &auditJob{
		auditor: auditor,
		days:    cfg.Audit.HorizonDays,
		workers: cfg.Audit.Workers,
		loc:     loc,
		logger:  log,
	}
	sched, err := job.schedule(ctx, cfg.Audit.Cron)
	if err != nil {
		return err
	}
	sched.Start()
	defer func() {
		// wait for a running audit to finish
		<-sched.Stop().Done()
	}()
	log.Info("scheduled background audit", zap.String("cron", cfg.Audit.Cron))

	consumer := rabbitmq.NewConsumer(amqpConn, auditor.HandleMessage, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting event audit consumer")
		errCh <- consumer.Start(ctx, rabbitmq.Exchange, auditRoutingKey, auditQueue)
	}()

	// wait for termination
	select {
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return nil
}
