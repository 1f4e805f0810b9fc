package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type published struct {
	key string
	msg amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	durable    bool
	published  []published
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	f.declared = append(f.declared, name)
	f.durable = durable
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func testOrder() checkout.Order {
	return checkout.Order{
		ID:    uuid.New(),
		Email: "jane@example.com",
		Lines: []domain.CartLine{
			{Product: domain.Product{ID: 1, Price: 10}, Quantity: 2},
			{Product: domain.Product{ID: 4, Price: 5}, Quantity: 1},
		},
		Summary:   checkout.Quote(25),
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewOrderPlaced(t *testing.T) {
	order := testOrder()
	event := NewOrderPlaced(order)

	assert.Equal(t, OrderPlacedType, event.Type)
	assert.Equal(t, order.ID.String(), event.OrderID)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, []int64{1, 4}, event.ProductIDs)
	assert.Equal(t, order.CreatedAt, event.PlacedAt)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.PublishOrderPlaced(context.Background(), testOrder()))
	require.NoError(t, p.Close())

	entries := logs.FilterMessage("Order placed event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["items"])
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newRabbitMQPublisher(ch, "", zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultQueue}, ch.declared)
	assert.True(t, ch.durable)

	order := testOrder()
	require.NoError(t, p.PublishOrderPlaced(context.Background(), order))
	require.Len(t, ch.published, 1)

	sent := ch.published[0]
	assert.Equal(t, DefaultQueue, sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, order.ID.String(), sent.msg.MessageId)

	var body OrderPlaced
	require.NoError(t, json.Unmarshal(sent.msg.Body, &body))
	assert.Equal(t, NewOrderPlaced(order), body)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestRabbitMQPublisher_Errors(t *testing.T) {
	_, err := newRabbitMQPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "orders", zap.NewNop())
	assert.ErrorContains(t, err, "failed to declare orders")

	p, err := newRabbitMQPublisher(&fakeChannel{publishErr: errors.New("channel closed")}, "orders", zap.NewNop())
	require.NoError(t, err)
	assert.ErrorContains(t, p.PublishOrderPlaced(context.Background(), testOrder()), "failed to publish order event")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishOrderPlaced(ctx, testOrder()), context.Canceled)
}
