package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"elon_broker/internal/auth"
	"elon_broker/internal/models"
	"elon_broker/internal/storage"
)

type contextKey string

const (
	userKey        contextKey = "user"
	adminClaimsKey contextKey = "admin_claims"
)

// UserLoader загружает пользователя по id из хранилища
type UserLoader interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

// UserAuth проверяет пользовательский JWT токен и подгружает пользователя
// из базы. Несуществующий или деактивированный пользователь получает 401.
func UserAuth(authService *auth.Service, users UserLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondError(w, http.StatusUnauthorized, "Access token is required")
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if users == nil {
				respondError(w, http.StatusServiceUnavailable, "Database is unavailable")
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, storage.ErrNotFound) {
					logger.Error("Failed to load user for token", slog.Any("error", err))
				}
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")

				return
			}

			if !user.IsActive {
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth проверяет админский JWT токен
func AdminAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := authService.ValidateAdminToken(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid token.")
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser извлекает пользователя из контекста
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// GetAdminClaims извлекает админские claims из контекста
func GetAdminClaims(ctx context.Context) (*auth.AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(*auth.AdminClaims)
	return claims, ok
}
