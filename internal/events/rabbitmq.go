package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront/internal/checkout"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// DefaultQueue receives order events when no queue is configured
const DefaultQueue = "order_events"

// amqpChannel is the part of *amqp.Channel the publisher uses
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher sends order events to a durable queue
type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
	logger  *zap.Logger
}

// NewRabbitMQPublisher connects to url and declares queue
func NewRabbitMQPublisher(url, queue string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newRabbitMQPublisher(ch, queue, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newRabbitMQPublisher(ch amqpChannel, queue string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	logger = logger.Named("events")
	logger.Info("RabbitMQ publisher ready", zap.String("queue", queue))

	return &RabbitMQPublisher{
		channel: ch,
		queue:   queue,
		logger:  logger,
	}, nil
}

// PublishOrderPlaced publishes the order as a persistent JSON message
func (p *RabbitMQPublisher) PublishOrderPlaced(ctx context.Context, order checkout.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(NewOrderPlaced(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Type:         OrderPlacedType,
		MessageId:    order.ID.String(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug("Published order event", zap.String("order_id", order.ID.String()))
	return nil
}

// Close closes the channel and then the connection
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close RabbitMQ publisher: %v", errs)
	}
	return nil
}
