package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/OFFIS-RIT/famtree/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rabbitmq/amqp091-go"
)

// Deliver processes one delivery end to end: it runs the job, publishes the
// reply and acks. Failures that may go away on their own are routed through
// HandleProcessingError.
func Deliver(ctx context.Context, ch Channel, p *Processor, msg amqp091.Delivery, queueName string) {
	reply, err := p.Process(ctx, queueName, msg.Body)
	if err == nil {
		err = sendReply(ctx, ch, msg, reply)
	}
	if err != nil {
		logger.Error("[Queue] Error processing message", "queue", queueName, "err", err)
		HandleProcessingError(ctx, ch, msg, queueName)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("[Queue] Failed to ack message", "queue", queueName, "err", err)
		return
	}
	logger.Info("[Queue] Message processed", "queue", queueName, "correlation_id", msg.CorrelationId, "success", reply.Success)
}

func sendReply(ctx context.Context, ch Channel, msg amqp091.Delivery, reply JobReply) error {
	if msg.ReplyTo == "" {
		logger.Warn("[Queue] Message has no reply queue, dropping result", "correlation_id", msg.CorrelationId)
		return nil
	}

	correlationID := msg.CorrelationId
	if correlationID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate correlation id: %w", err)
		}
		correlationID = id
	}

	data, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}
	if err := PublishReply(ctx, ch, msg.ReplyTo, correlationID, data); err != nil {
		return fmt.Errorf("failed to publish reply to %s: %w", msg.ReplyTo, err)
	}
	return nil
}

// retries reads the x-retries header. Brokers hand integers back in
// whatever width they were written with.
func retries(headers amqp091.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// HandleProcessingError republishes msg to the retry queue, or to the DLQ
// once it has been retried MaxRetries times, and acks the original. If the
// republish fails the message is requeued.
func HandleProcessingError(ctx context.Context, ch Channel, msg amqp091.Delivery, queueName string) {
	count := retries(msg.Headers)

	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}

	target := queueName + "_retry"
	if count >= MaxRetries {
		target = queueName + "_dlq"
		logger.Info("[Queue] Sending message to DLQ", "dlq", target)
	} else {
		headers["x-retries"] = int32(count + 1)
	}

	pubErr := ch.PublishWithContext(ctx, "", target, false, false, amqp091.Publishing{
		ContentType:   msg.ContentType,
		CorrelationId: msg.CorrelationId,
		ReplyTo:       msg.ReplyTo,
		Body:          msg.Body,
		Headers:       headers,
		DeliveryMode:  amqp091.Persistent,
	})
	if pubErr != nil {
		logger.Error("[Queue] Failed to republish message", "queue", target, "err", pubErr)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
