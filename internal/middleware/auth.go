// Package middleware содержит HTTP middleware для обработки запросов.
// Включает идентификацию пользователя, логирование, сжатие ответов
// и проверку доверенных подсетей
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/ovseenko/linkcut/internal/config"
	"github.com/ovseenko/linkcut/internal/service"
	"go.uber.org/zap"
)

// contextKey определяет тип для ключей контекста
type contextKey string

const ownerIDKey contextKey = "ownerID"

const authCookieName = "jwt_token"

// AuthMiddleware извлекает идентификатор пользователя из JWT-куки.
// Если валидной куки нет, выпускает новый идентификатор и токен:
// само хранение учётных записей и вход остаются за внешним сервисом
func AuthMiddleware(svc *service.Service, cfg *config.Config, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var ownerID string

			cookie, err := r.Cookie(authCookieName)
			if err == nil && cookie != nil {
				ownerID, err = svc.ParseJWT(cookie.Value)
				if err != nil {
					logger.Warn("Invalid JWT token", zap.Error(err))
					ownerID = ""
				}
			}

			if ownerID == "" {
				ownerID, err = svc.GenerateOwnerID()
				if err != nil {
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				token, err := svc.GenerateJWT(ownerID)
				if err != nil {
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     authCookieName,
					Value:    token,
					Expires:  time.Now().Add(cfg.CookieTTL),
					Path:     "/",
					HttpOnly: true,
				})
			}

			ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOwnerID извлекает идентификатор пользователя из контекста
func GetOwnerID(r *http.Request) (string, bool) {
	ownerID, ok := r.Context().Value(ownerIDKey).(string)
	return ownerID, ok
}

// WithOwnerID кладёт идентификатор пользователя в контекст запроса
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}
