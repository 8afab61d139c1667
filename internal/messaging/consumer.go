package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-client/internal/logger"
)

// MessageHandler processes one raw message body.
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer delivers the status updates of a single order. Each consumer
// owns an exclusive auto-delete queue bound to that order's routing
// key, so closing the consumer releases everything it acquired: no
// subscription outlives its watcher.
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	orderID     string
	consumerTag string
}

// NewConsumer creates a consumer scoped to one order.
func NewConsumer(conn *Connection, log *logger.Logger, orderID string) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		orderID:     orderID,
		consumerTag: "order-watch-" + logger.GenerateRequestID(),
	}
}

// StartConsuming binds the per-order queue and delivers messages to the
// handler until the context is cancelled. It blocks; run it on its own
// goroutine.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	// Server-named, exclusive, auto-delete: the queue disappears with
	// this consumer.
	queue, err := c.conn.Channel().QueueDeclare(
		"",    // name (server-generated)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare subscription queue: %w", err)
	}
	routingKey := OrderRoutingKey(c.orderID)
	err = c.conn.Channel().QueueBind(
		queue.Name,     // queue
		routingKey,     // routing key
		StatusExchange, // exchange
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue to %s: %w", routingKey, err)
	}

	if err := c.conn.Channel().Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.conn.Channel().Consume(
		queue.Name,    // queue
		c.consumerTag, // consumer
		false,         // auto-ack (we ack manually)
		true,          // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("subscription_opened", "",
		fmt.Sprintf("Subscribed to status updates for order %s on queue %s", c.orderID, queue.Name))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("subscription_closed", "", "Consumer stopped by context")
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed for order %s", c.orderID)
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

// processMessage handles a single delivery.
func (c *Consumer) processMessage(ctx context.Context, delivery amqp091.Delivery, handler MessageHandler) {
	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := handler(processingCtx, delivery.Body); err != nil {
		c.logger.Error("message_processing_failed", "",
			fmt.Sprintf("Failed to process update for order %s", c.orderID), err)
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			c.logger.Error("message_nack_failed", "", "Failed to nack message", nackErr)
		}
		return
	}

	if ackErr := delivery.Ack(false); ackErr != nil {
		c.logger.Error("message_ack_failed", "", "Failed to ack message", ackErr)
	}
}

// Close cancels the consumer, releasing the queue binding.
func (c *Consumer) Close() error {
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Channel().Cancel(c.consumerTag, false); err != nil {
			return fmt.Errorf("failed to cancel consumer: %w", err)
		}
	}
	return nil
}
