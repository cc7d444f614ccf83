package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ovseenko/linkcut/internal/cache"
	"github.com/ovseenko/linkcut/internal/models"
	"github.com/ovseenko/linkcut/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrEmptyURL = errors.New("empty URL")
	// ErrCodeSpaceExhausted возвращается, когда бюджет попыток подбора
	// свободного кода исчерпан
	ErrCodeSpaceExhausted = errors.New("short code space exhausted")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service реализует логику создания и разрешения коротких ссылок
type Service struct {
	repo      repository.Repository
	gen       Generator
	linkCache *cache.Cache
	baseURL   string
	jwtSecret string
	logger    *zap.Logger
}

// NewService создаёт новый экземпляр Service
func NewService(repo repository.Repository, gen Generator, linkCache *cache.Cache, baseURL, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		gen:       gen,
		linkCache: linkCache,
		baseURL:   baseURL,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// CreateLink создаёт короткую ссылку для пользователя.
// Генератор выдаёт кандидат кода, вставка в хранилище атомарна; коллизия,
// проскочившая между проверкой и вставкой, гасится повторной попыткой
// в пределах общего бюджета
func (s *Service) CreateLink(ctx context.Context, ownerID, originalURL string) (models.Link, error) {
	if originalURL == "" {
		return models.Link{}, ErrEmptyURL
	}

	for attempt := 0; attempt < retryBudget; attempt++ {
		code, err := s.gen.Generate(ctx)
		if err != nil {
			return models.Link{}, err
		}

		link, err := s.repo.Insert(ctx, models.Link{
			OwnerID:     ownerID,
			OriginalURL: originalURL,
			Code:        code,
		})
		if err == nil {
			return link, nil
		}
		if errors.Is(err, repository.ErrCodeExists) {
			s.logger.Warn("Code collision on insert, retrying", zap.String("code", code), zap.Int("attempt", attempt+1))
			continue
		}
		return models.Link{}, err
	}
	return models.Link{}, ErrCodeSpaceExhausted
}

// ResolveLink возвращает оригинальный URL по коду и учитывает переход.
// Ошибка инкремента не фатальна для запроса: редирект важнее точности
// счётчика, сбой уходит в лог
func (s *Service) ResolveLink(ctx context.Context, code string) (string, error) {
	originalURL, hit := s.linkCache.Lookup(ctx, code)
	if !hit {
		link, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			return "", err
		}
		originalURL = link.OriginalURL
		s.linkCache.Store(ctx, code, originalURL)
	}

	if _, err := s.repo.IncrementClicks(ctx, code); err != nil {
		s.logger.Warn("Click increment failed, serving redirect anyway",
			zap.String("code", code), zap.Error(err))
	}
	return originalURL, nil
}

// LinksByOwner возвращает все ссылки пользователя со счётчиками переходов
func (s *Service) LinksByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	return s.repo.FindByOwner(ctx, ownerID)
}

// Stats возвращает сводные показатели сервиса
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	return s.repo.Stats(ctx)
}

// ShortURL собирает полный короткий URL из кода
func (s *Service) ShortURL(code string) string {
	return strings.TrimRight(s.baseURL, "/") + "/" + code
}

// BaseURL возвращает базовый URL сервиса
func (s *Service) BaseURL() string {
	return s.baseURL
}

// GenerateOwnerID генерирует идентификатор пользователя
func (s *Service) GenerateOwnerID() (string, error) {
	return randomCode(8)
}

// GenerateJWT выпускает токен с идентификатором пользователя
func (s *Service) GenerateJWT(ownerID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseJWT извлекает идентификатор пользователя из токена
func (s *Service) ParseJWT(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
