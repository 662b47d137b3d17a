package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	exchangeName = "orders.events"
	queueName    = "order_status_queue"
)

// Client holds the RabbitMQ connection and channel used for order lifecycle
// events. The dashboard only produces status-change events; consumers
// (notification fan-out, analytics) live downstream.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// StatusEvent is the payload published whenever an order's status changes.
type StatusEvent struct {
	OrderID    string    `json:"orderId"`
	StoreID    string    `json:"storeId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewClient connects to RabbitMQ, opens a channel, and declares the order
// events exchange and status queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s exchange: %w", exchangeName, err)
	}

	queue, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queueName, err)
	}
	if err := ch.QueueBind(queue.Name, "order.#", exchangeName, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind %s: %w", queueName, err)
	}

	log.Info("RabbitMQ client connected", zap.String("exchange", exchangeName))

	return &Client{conn: conn, channel: ch, log: log}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishStatusEvent publishes an order status-change event. The routing key
// is "order.status_updated", or "order.cancelled" for cancellations.
func (c *Client) PublishStatusEvent(event StatusEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	routingKey := "order.status_updated"
	if event.Status == "cancelled" {
		routingKey = "order.cancelled"
	}

	err = c.channel.Publish(
		exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	c.log.Debug("published status event",
		zap.String("orderId", event.OrderID),
		zap.String("routingKey", routingKey))
	return nil
}

// ConsumeStatusEvents starts a goroutine delivering order status events to
// the given handler. A handler error nacks the message for redelivery;
// success acks it.
func (c *Client) ConsumeStatusEvents(handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.log.Warn("status event handler failed",
					zap.Uint64("deliveryTag", msg.DeliveryTag),
					zap.Error(err))
				if nackErr := msg.Nack(false, true); nackErr != nil {
					c.log.Error("failed to nack message", zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.Error("failed to ack message", zap.Error(ackErr))
			}
		}
	}()

	return nil
}
