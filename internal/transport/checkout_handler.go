package transport

import (
	"net/http"

	"storefront/internal/checkout"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutHandler prices the cart and places orders
type CheckoutHandler struct {
	checkout checkout.Service
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(svc checkout.Service, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		logger:   logger,
	}
}

// RegisterRoutes registers all checkout routes
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Route("/checkout", func(r chi.Router) {
		r.Get("/summary", h.Summary)
		r.Post("/", h.PlaceOrder)
	})
}

func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.checkout.Summary())
}

// PlaceOrder blocks for the processing delay. A client that disconnects
// cancels the order and keeps its cart.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var details checkout.ShippingDetails
	if !decodeRequest(w, r, &details, h.logger) {
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), details)
	if err != nil {
		if r.Context().Err() != nil {
			h.logger.Info("Checkout abandoned by client")
			return
		}
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}
