// Package events announces placed orders.
package events

import (
	"context"
	"time"

	"storefront/internal/checkout"

	"go.uber.org/zap"
)

const OrderPlacedType = "order.placed"

// Publisher is the sink for order events
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order checkout.Order) error
	Close() error
}

// OrderPlaced is the message body published for every placed order
type OrderPlaced struct {
	Type       string           `json:"type"`
	OrderID    string           `json:"orderId"`
	Email      string           `json:"email"`
	ItemCount  int              `json:"itemCount"`
	Summary    checkout.Summary `json:"summary"`
	ProductIDs []int64          `json:"productIds"`
	PlacedAt   time.Time        `json:"placedAt"`
}

// NewOrderPlaced builds the event for order
func NewOrderPlaced(order checkout.Order) OrderPlaced {
	event := OrderPlaced{
		Type:       OrderPlacedType,
		OrderID:    order.ID.String(),
		Email:      order.Email,
		Summary:    order.Summary,
		ProductIDs: make([]int64, 0, len(order.Lines)),
		PlacedAt:   order.CreatedAt,
	}
	for _, l := range order.Lines {
		event.ItemCount += l.Quantity
		event.ProductIDs = append(event.ProductIDs, l.ID)
	}
	return event
}

// LogPublisher writes order events to the log. It is used when no broker is
// configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

func (p *LogPublisher) PublishOrderPlaced(ctx context.Context, order checkout.Order) error {
	event := NewOrderPlaced(order)
	p.logger.Info("Order placed event",
		zap.String("order_id", event.OrderID),
		zap.Int("items", event.ItemCount),
		zap.Float64("total", event.Summary.Total),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
