// Package proto содержит интерфейс gRPC сервиса коротких ссылок
package proto

import (
	"context"

	"google.golang.org/grpc"
)

// LinkServiceServer представляет интерфейс gRPC сервиса
type LinkServiceServer interface {
	CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error)
	ResolveLink(ctx context.Context, req *ResolveLinkRequest) (*ResolveLinkResponse, error)
	ListOwnerLinks(ctx context.Context, req *ListOwnerLinksRequest) (*ListOwnerLinksResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
}

// UnimplementedLinkServiceServer предоставляет базовую реализацию интерфейса
type UnimplementedLinkServiceServer struct{}

// CreateLink предоставляет базовую реализацию метода создания ссылки
func (UnimplementedLinkServiceServer) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	return nil, nil
}

// ResolveLink предоставляет базовую реализацию метода разрешения кода
func (UnimplementedLinkServiceServer) ResolveLink(ctx context.Context, req *ResolveLinkRequest) (*ResolveLinkResponse, error) {
	return nil, nil
}

// ListOwnerLinks предоставляет базовую реализацию списка ссылок пользователя
func (UnimplementedLinkServiceServer) ListOwnerLinks(ctx context.Context, req *ListOwnerLinksRequest) (*ListOwnerLinksResponse, error) {
	return nil, nil
}

// GetStats предоставляет базовую реализацию получения сводных показателей
func (UnimplementedLinkServiceServer) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, nil
}

// Ping предоставляет базовую реализацию проверки состояния сервиса
func (UnimplementedLinkServiceServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return nil, nil
}

// RegisterLinkServiceServer регистрирует реализацию сервиса в gRPC сервере
func RegisterLinkServiceServer(s *grpc.Server, srv LinkServiceServer) {
	// В реальном проекте регистрация генерируется protoc
	// Здесь заглушка для демонстрации
}
