// Package proto содержит определения типов для gRPC сервиса коротких ссылок
package proto

// CreateLinkRequest представляет запрос на создание короткой ссылки
type CreateLinkRequest struct {
	OriginalURL string `json:"original_url"`
}

// CreateLinkResponse представляет ответ с созданной ссылкой
type CreateLinkResponse struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	ShortURL string `json:"short_url"`
}

// ResolveLinkRequest представляет запрос на разрешение кода
type ResolveLinkRequest struct {
	Code string `json:"code"`
}

// ResolveLinkResponse представляет ответ с оригинальным URL
type ResolveLinkResponse struct {
	OriginalURL string `json:"original_url"`
	Found       bool   `json:"found"`
}

// ListOwnerLinksRequest представляет запрос списка ссылок пользователя
type ListOwnerLinksRequest struct{}

// OwnerLink — элемент списка ссылок пользователя
type OwnerLink struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ClickCount  int64  `json:"click_count"`
}

// ListOwnerLinksResponse представляет ответ со списком ссылок пользователя
type ListOwnerLinksResponse struct {
	Links []*OwnerLink `json:"links"`
}

// GetStatsRequest представляет запрос сводных показателей
type GetStatsRequest struct{}

// GetStatsResponse представляет ответ со сводными показателями
type GetStatsResponse struct {
	Links  int64 `json:"links"`
	Clicks int64 `json:"clicks"`
}

// PingRequest представляет запрос проверки состояния
type PingRequest struct{}

// PingResponse представляет ответ проверки состояния
type PingResponse struct {
	DatabaseAvailable bool `json:"database_available"`
}
