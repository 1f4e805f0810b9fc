// Package checkout prices the cart and simulates placing an order.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"storefront/internal/domain"
	"storefront/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FreeShippingThreshold  = 100.0
	FlatShipping           = 10.0
	TaxRate                = 0.08
	DefaultProcessingDelay = 2 * time.Second
)

// Summary is the price breakdown shown before and after placing an order
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Quote prices a cart subtotal. Shipping is free strictly above the threshold.
func Quote(subtotal float64) Summary {
	shipping := FlatShipping
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * TaxRate

	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

// ShippingDetails is the checkout form
type ShippingDetails struct {
	Email      string `json:"email" validate:"required,storeemail"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	ZipCode    string `json:"zipCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required,max=19"`
	CardName   string `json:"cardName" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required,max=5"`
	CVV        string `json:"cvv" validate:"required,numeric,max=4"`
}

// Order is the record of a placed order
type Order struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	Lines     []domain.CartLine `json:"lines"`
	Summary   Summary           `json:"summary"`
	CardLast4 string            `json:"cardLast4"`
	CreatedAt time.Time         `json:"createdAt"`
}

// OrderPublisher announces placed orders to the outside world
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order Order) error
}

type Service interface {
	Summary() Summary
	PlaceOrder(ctx context.Context, details ShippingDetails) (Order, error)
}

type service struct {
	cart      store.CartStore
	publisher OrderPublisher
	validate  *validator.Validate
	delay     time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a checkout over cart. A negative delay falls back to
// DefaultProcessingDelay; zero places orders immediately.
func NewService(cart store.CartStore, publisher OrderPublisher, delay time.Duration, logger *zap.Logger) Service {
	if delay < 0 {
		delay = DefaultProcessingDelay
	}
	return &service{
		cart:      cart,
		publisher: publisher,
		validate:  domain.NewValidator(),
		delay:     delay,
		logger:    logger.Named("checkout"),
		now:       time.Now,
	}
}

// Summary prices the current cart
func (s *service) Summary() Summary {
	return Quote(s.cart.GetCartTotal())
}

// PlaceOrder validates the form, waits out the processing delay and takes the
// ordered lines out of the cart. Items added while the order is processing stay
// in the cart. A cancelled ctx leaves the cart as it was.
func (s *service) PlaceOrder(ctx context.Context, details ShippingDetails) (Order, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return Order{}, domain.ErrEmptyCart
	}

	if err := s.validate.Struct(details); err != nil {
		return Order{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	order := Order{
		ID:        uuid.New(),
		Email:     details.Email,
		Lines:     lines,
		Summary:   Quote(subtotal(lines)),
		CardLast4: last4(details.CardNumber),
	}

	if err := s.wait(ctx); err != nil {
		s.logger.Info("Order cancelled while processing", zap.String("order_id", order.ID.String()))
		return Order{}, err
	}
	order.CreatedAt = s.now().UTC()

	if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.Error("Failed to publish order event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	if err := s.cart.RemoveOrdered(ctx, order.Lines); err != nil {
		return Order{}, fmt.Errorf("failed to remove ordered items from cart: %w", err)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.Float64("total", order.Summary.Total),
	)

	return order, nil
}

func (s *service) wait(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func subtotal(lines []domain.CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func last4(cardNumber string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cardNumber)

	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
