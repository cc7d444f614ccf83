package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ovseenko/linkcut/internal/models"
	"go.uber.org/zap"
)

// linkRecord представляет запись в JSON-файле
type linkRecord struct {
	ID          int64  `json:"id"`
	OwnerID     string `json:"owner_id"`
	OriginalURL string `json:"original_url"`
	Code        string `json:"code"`
	ClickCount  int64  `json:"click_count"`
}

// FileRepository реализует интерфейс Repository с использованием файла.
// Файл ведётся как журнал: каждая мутация дописывает строку, при загрузке
// последняя запись для кода выигрывает
type FileRepository struct {
	mu       sync.RWMutex
	byCode   map[string]models.Link
	nextID   int64
	filePath string
	logger   *zap.Logger
}

// NewFileRepository создаёт новый экземпляр FileRepository и загружает журнал
func NewFileRepository(filePath string, logger *zap.Logger) (*FileRepository, error) {
	repo := &FileRepository{
		byCode:   make(map[string]models.Link),
		filePath: filePath,
		logger:   logger,
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			newFile, err := os.Create(filePath)
			if err != nil {
				return nil, err
			}
			newFile.Close()
			return repo, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record linkRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			// Пропускаем некорректные строки и логируем это
			repo.logger.Warn("Skipping invalid JSON line", zap.String("line", string(scanner.Bytes())), zap.Error(err))
			continue
		}
		repo.byCode[record.Code] = models.Link{
			ID:          record.ID,
			OwnerID:     record.OwnerID,
			OriginalURL: record.OriginalURL,
			Code:        record.Code,
			ClickCount:  record.ClickCount,
		}
		if record.ID > repo.nextID {
			repo.nextID = record.ID
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return repo, nil
}

// appendRecord дописывает запись в журнал, вызывается под мьютексом
func (r *FileRepository) appendRecord(link models.Link) error {
	record := linkRecord{
		ID:          link.ID,
		OwnerID:     link.OwnerID,
		OriginalURL: link.OriginalURL,
		Code:        link.Code,
		ClickCount:  link.ClickCount,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	file, err := os.OpenFile(r.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(data)
	return err
}

// FindByCode возвращает ссылку по коду
func (r *FileRepository) FindByCode(ctx context.Context, code string) (models.Link, error) {
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
func (r *FileRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
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

// Insert сохраняет ссылку в хранилище и журнал
func (r *FileRepository) Insert(ctx context.Context, link models.Link) (models.Link, error) {
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

	if err := r.appendRecord(link); err != nil {
		r.logger.Error("Failed to append link record", zap.String("code", link.Code), zap.Error(err))
		return models.Link{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	r.byCode[link.Code] = link
	return link, nil
}

// IncrementClicks увеличивает счётчик переходов и дописывает обновлённую запись
func (r *FileRepository) IncrementClicks(ctx context.Context, code string) (int64, error) {
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

	if err := r.appendRecord(link); err != nil {
		r.logger.Error("Failed to append click record", zap.String("code", code), zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	r.byCode[code] = link
	return link.ClickCount, nil
}

// Stats возвращает сводные показатели по всем ссылкам
func (r *FileRepository) Stats(ctx context.Context) (models.Stats, error) {
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
