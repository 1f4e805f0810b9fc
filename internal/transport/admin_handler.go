package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminUpdateUserRequest edits any user's profile
type AdminUpdateUserRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	Email          *string `json:"email" validate:"omitempty,storeemail"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

// AdminHandler serves the admin panel: user roles and catalog management
type AdminHandler struct {
	auth    store.AuthStore
	catalog store.CatalogStore
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(auth store.AuthStore, catalog store.CatalogStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		auth:    auth,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all admin routes behind authentication and the
// admin role
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Get("/users", h.ListUsers)
		r.Patch("/users/{id}", h.UpdateUser)
		r.Post("/users/{id}/admin", h.GrantAdmin)
		r.Delete("/users/{id}/admin", h.RevokeAdmin)

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.auth.GetAllUsers())
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	update := domain.UserUpdate{Name: req.Name, Email: req.Email, ProfilePicture: req.ProfilePicture}
	if err := h.auth.UpdateUser(r.Context(), id, update); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.respondWithUser(w, id)
}

func (h *AdminHandler) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.auth.MakeAdmin(r.Context(), id); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.logger.Info("Admin role granted", zap.Int64("user_id", id))
	h.respondWithUser(w, id)
}

// RevokeAdmin demotes a user. The bootstrap admin account cannot be demoted.
func (h *AdminHandler) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if user, found := h.findUser(id); found && user.Email == domain.AdminEmail {
		h.logger.Warn("Refused to demote the bootstrap admin", zap.Int64("user_id", id))
		middleware.RespondWithError(w, http.StatusForbidden, "the bootstrap admin cannot be demoted")
		return
	}

	if err := h.auth.RemoveAdmin(r.Context(), id); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.logger.Info("Admin role revoked", zap.Int64("user_id", id))
	h.respondWithUser(w, id)
}

func (h *AdminHandler) findUser(id int64) (domain.PublicUser, bool) {
	for _, u := range h.auth.GetAllUsers() {
		if u.ID == id {
			return u, true
		}
	}
	return domain.PublicUser{}, false
}

func (h *AdminHandler) respondWithUser(w http.ResponseWriter, id int64) {
	user, ok := h.findUser(id)
	if !ok {
		middleware.RespondWithStoreError(w, domain.ErrUserNotFound, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductInput
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), req)
	if err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req domain.ProductUpdate
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	if err := h.catalog.UpdateProduct(r.Context(), id, req); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	product, found := h.catalog.Product(id)
	if !found {
		middleware.RespondWithStoreError(w, domain.ErrProductNotFound, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
