package models

// Link представляет запись о сокращённой ссылке
type Link struct {
	ID          int64  `json:"id" db:"id"`
	OwnerID     string `json:"owner_id" db:"owner_id"`
	OriginalURL string `json:"original_url" db:"original_url"`
	Code        string `json:"code" db:"code"`
	ClickCount  int64  `json:"click_count" db:"click_count"`
}

// Stats содержит сводные показатели сервиса
type Stats struct {
	Links  int64 `json:"links"`
	Clicks int64 `json:"clicks"`
}

type ShortenRequest struct {
	URL string `json:"url"`
}

type ShortenResponse struct {
	Result string `json:"result"`
}

type ExpandResponse struct {
	URL string `json:"url"`
}

// OwnerLinkResponse — элемент списка ссылок пользователя
type OwnerLinkResponse struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ClickCount  int64  `json:"click_count"`
}
