package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ovseenko/linkcut/internal/middleware"
	"github.com/ovseenko/linkcut/internal/models"
	"github.com/ovseenko/linkcut/internal/repository"
	"github.com/ovseenko/linkcut/internal/service"
	"go.uber.org/zap"
)

// App содержит хендлеры и зависимости
type App struct {
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewApp создаёт новое приложение
func NewApp(svc *service.Service, db repository.Database, logger *zap.Logger) *App {
	return &App{svc: svc, db: db, logger: logger}
}

// writeCreateError транслирует ошибки создания ссылки в HTTP-статусы
func (a *App) writeCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyURL):
		http.Error(w, "Empty URL", http.StatusBadRequest)
	case errors.Is(err, service.ErrCodeSpaceExhausted):
		http.Error(w, "Failed to allocate short code", http.StatusInternalServerError)
	case errors.Is(err, repository.ErrStoreUnavailable):
		http.Error(w, "Storage unavailable", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleCreateLink обрабатывает POST-запросы на "/": тело запроса — исходный URL
func (a *App) HandleCreateLink(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	link, err := a.svc.CreateLink(r.Context(), ownerID, strings.TrimSpace(string(body)))
	if err != nil {
		a.writeCreateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write([]byte(a.svc.ShortURL(link.Code))); err != nil {
		a.logger.Error("Failed to write response", zap.Error(err))
	}
}

// HandleRedirect обрабатывает GET-запросы на "/{code}"
func (a *App) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "Missing link code", http.StatusBadRequest)
		return
	}

	originalURL, err := a.svc.ResolveLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Link not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Storage unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", originalURL)
	w.WriteHeader(http.StatusTemporaryRedirect)
}

// HandleJSONShorten обрабатывает POST-запросы на "/api/shorten"
func (a *App) HandleJSONShorten(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	var reqBody models.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	ownerID, ok := middleware.GetOwnerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	link, err := a.svc.CreateLink(r.Context(), ownerID, reqBody.URL)
	if err != nil {
		a.writeCreateError(w, err)
		return
	}

	a.writeJSONResponse(w, http.StatusCreated, models.ShortenResponse{
		Result: a.svc.ShortURL(link.Code),
	})
}

// HandleJSONExpand обрабатывает GET-запросы на "/api/expand/{code}"
func (a *App) HandleJSONExpand(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	originalURL, err := a.svc.ResolveLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.writeJSONResponse(w, http.StatusNotFound, struct {
				Error string `json:"error"`
			}{Error: "Link not found"})
			return
		}
		http.Error(w, "Storage unavailable", http.StatusInternalServerError)
		return
	}

	a.writeJSONResponse(w, http.StatusOK, models.ExpandResponse{URL: originalURL})
}

// HandleOwnerLinks обрабатывает GET-запросы на "/api/user/links"
func (a *App) HandleOwnerLinks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	links, err := a.svc.LinksByOwner(r.Context(), ownerID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if len(links) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]models.OwnerLinkResponse, len(links))
	for i, l := range links {
		resp[i] = models.OwnerLinkResponse{
			ShortURL:    a.svc.ShortURL(l.Code),
			OriginalURL: l.OriginalURL,
			ClickCount:  l.ClickCount,
		}
	}

	a.writeJSONResponse(w, http.StatusOK, resp)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.Stats(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	a.writeJSONResponse(w, http.StatusOK, stats)
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.PingContext(r.Context()); err != nil {
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		a.logger.Error("Failed to write response", zap.Error(err))
	}
}
