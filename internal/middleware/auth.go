package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// TokenParser verifies a bearer token
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// SessionSource exposes the live session
type SessionSource interface {
	CurrentUser() (domain.SessionUser, bool)
}

// AuthMiddleware accepts a request only when its bearer token verifies and is
// the token of the current session. The role placed in the context is read
// from the session, not the token, so role changes apply immediately.
func AuthMiddleware(tokens TokenParser, sessions SessionSource, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				RespondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := parts[1]

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			session, ok := sessions.CurrentUser()
			if !ok || session.Token != tokenString || session.ID != claims.UserID {
				logger.Debug("Token does not belong to the current session", zap.Int64("user_id", claims.UserID))
				RespondWithError(w, http.StatusUnauthorized, "session is no longer active")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, session.ID)
			ctx = context.WithValue(ctx, UserRoleKey, session.Role)

			logger.Debug("User authenticated",
				zap.Int64("user_id", session.ID),
				zap.String("role", string(session.Role)),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(UserRoleKey).(domain.Role)
	return role, ok
}
