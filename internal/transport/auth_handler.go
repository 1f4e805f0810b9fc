package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignupRequest represents the signup request payload. Email shape and
// password length are checked by the auth store so its error order applies.
type SignupRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest holds the fields a user may change on their own profile
type UpdateProfileRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

// AuthHandler handles signup, login and the current user's profile
type AuthHandler struct {
	auth   store.AuthStore
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth store.AuthStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Patch("/me", h.UpdateMe)
		})
	})
}

// Signup registers and logs in a new user
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	session, err := h.auth.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.logger.Debug("Signup failed", zap.Error(err))
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, session)
}

// Login starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, session)
}

// Logout ends the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the session user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := h.auth.CurrentUser()
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, session)
}

// UpdateMe edits the session user's name and picture
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var req UpdateProfileRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	update := domain.UserUpdate{Name: req.Name, ProfilePicture: req.ProfilePicture}
	if err := h.auth.UpdateUser(r.Context(), userID, update); err != nil {
		middleware.RespondWithStoreError(w, err, h.logger)
		return
	}

	h.Me(w, r)
}
