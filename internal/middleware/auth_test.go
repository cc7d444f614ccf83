package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ovseenko/linkcut/internal/config"
	"github.com/ovseenko/linkcut/internal/repository"
	"github.com/ovseenko/linkcut/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService() *service.Service {
	repo := repository.NewMemoryRepository()
	return service.NewService(repo, service.NewCodeGenerator(repo, 0), nil, "http://localhost:8080", "secret", zap.NewNop())
}

func TestGetOwnerID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	ownerID, exists := GetOwnerID(req)
	assert.False(t, exists)
	assert.Equal(t, "", ownerID)

	ctx := context.WithValue(req.Context(), ownerIDKey, "test_user")
	req = req.WithContext(ctx)

	ownerID, exists = GetOwnerID(req)
	assert.True(t, exists)
	assert.Equal(t, "test_user", ownerID)
}

func TestAuthMiddleware_IssuesIdentity(t *testing.T) {
	svc := newTestService()
	cfg := &config.Config{CookieTTL: 24 * time.Hour}

	var gotOwnerID string
	handler := AuthMiddleware(svc, cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwnerID, _ = GetOwnerID(r)
		w.WriteHeader(http.StatusOK)
	}))

	// Запрос без куки: middleware выпускает идентификатор и токен
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, gotOwnerID, "Handler should see an owner id")
	cookies := rec.Result().Cookies()
	var token string
	for _, c := range cookies {
		if c.Name == authCookieName {
			token = c.Value
		}
	}
	assert.NotEmpty(t, token, "Middleware should set the jwt cookie")

	// Повторный запрос с кукой: идентификатор сохраняется
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	rec = httptest.NewRecorder()

	var secondOwnerID string
	handler = AuthMiddleware(svc, cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondOwnerID, _ = GetOwnerID(r)
	}))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, gotOwnerID, secondOwnerID, "Owner id should be stable across requests")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	svc := newTestService()
	cfg := &config.Config{CookieTTL: 24 * time.Hour}

	var gotOwnerID string
	handler := AuthMiddleware(svc, cfg, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwnerID, _ = GetOwnerID(r)
	}))

	// Невалидный токен не должен ронять запрос: выпускается новый
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "invalid.token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, gotOwnerID, "A fresh identity should be issued for an invalid token")
}
