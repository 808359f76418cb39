package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/teammatch/backend/internal/auth"
	"github.com/teammatch/backend/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// AuthMiddleware creates JWT authentication middleware. Browsers cannot set
// headers on a websocket handshake, so the token may also arrive as the
// access_token query parameter.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Unauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := jwtManager.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					response.Unauthorized(w, "token has expired")
					return
				}
				response.Unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		token := r.URL.Query().Get("access_token")
		return token, token != ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// WithUserID stores the authenticated user in ctx
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
