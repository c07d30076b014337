package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"

	"kasir/internal/models"
)

// EventOrderCompleted is the type of the message published for every
// completed order.
const EventOrderCompleted = "order.completed"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
	mu      sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the order queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger = logger.Named("rabbitmq")
	logger.Info("connected", zap.String("queue", cfg.Queue))

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		logger:  logger,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", name, err)
	}
	return q, nil
}

// Close closes the RabbitMQ connection and channel.
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
	return errors.Join(errs...)
}

// OrderCompleted is the body of an order.completed message.
type OrderCompleted struct {
	Event         string          `json:"event"`
	OrderID       string          `json:"orderId"`
	ItemCount     int             `json:"itemCount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Total         decimal.Decimal `json:"total"`
	Timestamp     string          `json:"timestamp"`
}

// EncodeOrderCompleted builds the JSON body announcing receipt.
func EncodeOrderCompleted(receipt models.Receipt) ([]byte, error) {
	count := 0
	for _, l := range receipt.Lines {
		count += l.Quantity
	}
	body, err := json.Marshal(OrderCompleted{
		Event:         EventOrderCompleted,
		OrderID:       receipt.OrderID,
		ItemCount:     count,
		Subtotal:      receipt.Subtotal,
		ServiceCharge: receipt.ServiceCharge,
		Total:         receipt.Total,
		Timestamp:     receipt.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return body, nil
}

// DecodeOrderCompleted parses an order.completed message body.
func DecodeOrderCompleted(body []byte) (OrderCompleted, error) {
	var event OrderCompleted
	if err := json.Unmarshal(body, &event); err != nil {
		return OrderCompleted{}, fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.Event != EventOrderCompleted {
		return OrderCompleted{}, fmt.Errorf("unexpected event type %q", event.Event)
	}
	return event, nil
}

// PublishOrderCompleted publishes an order.completed event for receipt to
// the order queue.
func (c *Client) PublishOrderCompleted(ctx context.Context, receipt models.Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := EncodeOrderCompleted(receipt)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Type:         EventOrderCompleted,
		MessageId:    uuid.NewString(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}
	if err := c.channel.Publish("", c.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("order event sent",
		zap.String("message_id", msg.MessageId),
		zap.String("order_id", receipt.OrderID),
	)
	return nil
}

// ConsumeOrderEvents passes every order.completed message on the queue to
// handler until ctx is done. Messages the handler fails on are requeued;
// messages that cannot be decoded are dropped.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler func(OrderCompleted) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.handleDelivery(msg, handler)
			}
		}
	}()
	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(OrderCompleted) error) {
	event, err := DecodeOrderCompleted(msg.Body)
	if err != nil {
		c.logger.Warn("dropping malformed order event", zap.String("message_id", msg.MessageId), zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if err := handler(event); err != nil {
		c.logger.Warn("order event handler failed, requeueing",
			zap.String("message_id", msg.MessageId),
			zap.Error(err),
		)
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("failed to ack message", zap.Error(ackErr))
	}
}
