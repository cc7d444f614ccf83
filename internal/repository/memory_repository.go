package repository

import (
	"context"
	"sync"

	"github.com/ovseenko/linkcut/internal/models"
)

// MemoryRepository реализует интерфейс Repository с использованием map.
// Вся мутация выполняется под мьютексом, поэтому вставка и инкремент
// атомарны относительно конкурентных вызовов
type MemoryRepository struct {
	mu     sync.RWMutex
	byCode map[string]models.Link
	nextID int64
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byCode: make(map[string]models.Link),
	}
}

// FindByCode возвращает ссылку по коду
func (r *MemoryRepository) FindByCode(ctx context.Context, code string) (models.Link, error) {
	if err := ctx.Err(); err != nil {
		return models.Link{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, exists := r.byCode[code]
	if !exists {
		return models.Link{}, ErrNotFound
	}
	return link, nil
}

// FindByOwner возвращает все ссылки пользователя
func (r *MemoryRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var links []models.Link
	for _, link := range r.byCode {
		if link.OwnerID == ownerID {
			links = append(links, link)
		}
	}
	return links, nil
}

// Insert сохраняет ссылку и присваивает ей ID.
// Проверка занятости кода и запись выполняются под одним мьютексом
func (r *MemoryRepository) Insert(ctx context.Context, link models.Link) (models.Link, error) {
	if err := ctx.Err(); err != nil {
		return models.Link{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[link.Code]; exists {
		return models.Link{}, ErrCodeExists
	}
	r.nextID++
	link.ID = r.nextID
	link.ClickCount = 0
	r.byCode[link.Code] = link
	return link, nil
}

// IncrementClicks атомарно увеличивает счётчик переходов
func (r *MemoryRepository) IncrementClicks(ctx context.Context, code string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.byCode[code]
	if !exists {
		return 0, ErrNotFound
	}
	link.ClickCount++
	r.byCode[code] = link
	return link.ClickCount, nil
}

// Stats возвращает сводные показатели по всем ссылкам
func (r *MemoryRepository) Stats(ctx context.Context) (models.Stats, error) {
	if err := ctx.Err(); err != nil {
		return models.Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats models.Stats
	for _, link := range r.byCode {
		stats.Links++
		stats.Clicks += link.ClickCount
	}
	return stats, nil
}
