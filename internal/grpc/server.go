// Package grpc содержит реализацию gRPC сервера для сервиса коротких ссылок
package grpc

import (
	"context"
	"errors"

	"github.com/ovseenko/linkcut/internal/grpc/proto"
	"github.com/ovseenko/linkcut/internal/repository"
	"github.com/ovseenko/linkcut/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер для сервиса коротких ссылок
type Server struct {
	proto.UnimplementedLinkServiceServer
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, db repository.Database, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		db:     db,
		logger: logger,
	}
}

// mapError транслирует ошибки сервиса в gRPC статусы
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyURL):
		return status.Error(codes.InvalidArgument, "original URL is required")
	case errors.Is(err, service.ErrCodeSpaceExhausted):
		return status.Error(codes.ResourceExhausted, "failed to allocate short code")
	case errors.Is(err, repository.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "storage unavailable")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// CreateLink обрабатывает создание короткой ссылки
func (s *Server) CreateLink(ctx context.Context, req *proto.CreateLinkRequest) (*proto.CreateLinkResponse, error) {
	if req.OriginalURL == "" {
		return nil, status.Error(codes.InvalidArgument, "original URL is required")
	}

	ownerID, err := getOwnerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	link, err := s.svc.CreateLink(ctx, ownerID, req.OriginalURL)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &proto.CreateLinkResponse{
		ID:       link.ID,
		Code:     link.Code,
		ShortURL: s.svc.ShortURL(link.Code),
	}, nil
}

// ResolveLink обрабатывает разрешение кода в оригинальный URL
func (s *Server) ResolveLink(ctx context.Context, req *proto.ResolveLinkRequest) (*proto.ResolveLinkResponse, error) {
	if req.Code == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	originalURL, err := s.svc.ResolveLink(ctx, req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &proto.ResolveLinkResponse{Found: false}, nil
		}
		return nil, s.mapError(err)
	}

	return &proto.ResolveLinkResponse{
		OriginalURL: originalURL,
		Found:       true,
	}, nil
}

// ListOwnerLinks возвращает все ссылки пользователя со счётчиками переходов
func (s *Server) ListOwnerLinks(ctx context.Context, req *proto.ListOwnerLinksRequest) (*proto.ListOwnerLinksResponse, error) {
	ownerID, err := getOwnerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	links, err := s.svc.LinksByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.mapError(err)
	}

	resp := &proto.ListOwnerLinksResponse{
		Links: make([]*proto.OwnerLink, len(links)),
	}
	for i, l := range links {
		resp.Links[i] = &proto.OwnerLink{
			ShortURL:    s.svc.ShortURL(l.Code),
			OriginalURL: l.OriginalURL,
			ClickCount:  l.ClickCount,
		}
	}
	return resp, nil
}

// GetStats возвращает сводные показатели сервиса
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetStatsResponse{
		Links:  stats.Links,
		Clicks: stats.Clicks,
	}, nil
}

// Ping проверяет доступность базы данных
func (s *Server) Ping(ctx context.Context, req *proto.PingRequest) (*proto.PingResponse, error) {
	if s.db == nil {
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("Database ping failed", zap.Error(err))
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}
	return &proto.PingResponse{DatabaseAvailable: true}, nil
}

// getOwnerIDFromContext извлекает идентификатор пользователя из контекста
func getOwnerIDFromContext(ctx context.Context) (string, error) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	if !ok || ownerID == "" {
		return "", status.Error(codes.Unauthenticated, "missing owner identity")
	}
	return ownerID, nil
}
