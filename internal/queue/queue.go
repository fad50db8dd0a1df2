package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/famtree/backend/internal/util"
	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ParseQueue    = "parse_queue"
	ValidateQueue = "validate_queue"

	// MaxRetries is how often a message goes through the retry queue before
	// it is parked in the DLQ.
	MaxRetries = 10

	retryTTL = 10 * time.Second
)

// Queues lists the work queues the worker consumes.
var Queues = []string{ParseQueue, ValidateQueue}

// Channel is the part of *amqp091.Channel the queue helpers use.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

func Init() *amqp091.Connection {
	user := util.GetEnv("RABBITMQ_USER")
	pass := util.GetEnv("RABBITMQ_PASSWORD")
	host := util.GetEnvString("RABBITMQ_HOST", "localhost")
	port := util.GetEnvString("RABBITMQ_PORT", "5672")

	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		user,
		pass,
		host,
		port,
	)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "host", host, "port", port, "err", err)
	}

	return conn
}

// SetupQueues declares every queue together with its _dlq and _retry
// companions. The retry queue dead-letters back into the work queue after
// retryTTL.
func SetupQueues(ch Channel, queueNames []string) error {
	for _, name := range queueNames {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare %s: %w", name, err)
		}

		dlqName := name + "_dlq"
		if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare %s: %w", dlqName, err)
		}

		retryName := name + "_retry"
		_, err := ch.QueueDeclare(
			retryName,
			true,
			false,
			false,
			false,
			amqp091.Table{
				"x-message-ttl":             int32(retryTTL / time.Millisecond),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		)
		if err != nil {
			return fmt.Errorf("declare %s: %w", retryName, err)
		}
	}

	return nil
}

// PublishFIFO publishes a persistent message to the default exchange.
func PublishFIFO(ctx context.Context, ch Channel, queueName string, data []byte) error {
	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}

// PublishReply sends a job result to replyTo under the caller's
// correlation id.
func PublishReply(ctx context.Context, ch Channel, replyTo, correlationID string, data []byte) error {
	return ch.PublishWithContext(ctx, "", replyTo, false, false, amqp091.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		Body:          data,
		Timestamp:     time.Now(),
	})
}
