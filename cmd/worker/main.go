package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/famtree/backend/internal/queue"
	"github.com/OFFIS-RIT/famtree/backend/internal/storage"
	"github.com/OFFIS-RIT/famtree/backend/internal/util"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger/console"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		JSON:   util.GetEnvBool("LOG_JSON", false),
		Prefix: "worker",
	})
	logger.Init(consoleLogger)

	// Key jobs need a bucket; inline jobs work without one.
	var files loader.TableFileLoader
	s3Loader, err := storage.NewS3TableLoader(ctx)
	switch {
	case errors.Is(err, storage.ErrNoBucket):
		logger.Warn("AWS_BUCKET not set, jobs referencing a key will be rejected")
	case err != nil:
		logger.Fatal("Failed to create S3 client", "err", err)
	default:
		files = s3Loader
	}

	processor := queue.NewProcessor(queue.NewProcessorParams{
		Files:        files,
		FetchRetries: util.GetEnvInt("WORKER_FETCH_RETRIES", 3),
		Backoff:      500 * time.Millisecond,
	})

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to declare queues", "err", err)
	}

	// Jobs are small and independent, so a few may be in flight at once.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	prefetch := util.GetEnvInt("WORKER_PREFETCH", 4)
	if err := consumerCh.Qos(prefetch, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	logger.Info("Listening for messages", "queues", queue.Queues, "prefetch", prefetch)

	g, gCtx := errgroup.WithContext(ctx)
	for _, queueName := range queue.Queues {
		g.Go(func() error {
			return consume(gCtx, consumerCh, ch, processor, queueName)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Worker stopped", "err", err)
	}
	logger.Info("Shutdown signal received, exiting...")
}

func consume(ctx context.Context, consumerCh *amqp.Channel, publishCh queue.Channel, p *queue.Processor, queueName string) error {
	msgs, err := consumerCh.Consume(
		queueName,
		fmt.Sprintf("%s_consumer", queueName),
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", queueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping consumer", "queue", queueName)
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel of %s closed", queueName)
			}
			start := time.Now()
			queue.Deliver(ctx, publishCh, p, msg, queueName)
			logger.Debug("Processing time", "queue", queueName, "duration", time.Since(start))
		}
	}
}
