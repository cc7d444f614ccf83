package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ovseenko/linkcut/internal/models"
)

// ErrCodeExists возвращается при попытке вставить ссылку с занятым кодом.
// Уникальность кода гарантируется именно на этом уровне, а не проверкой перед записью
var ErrCodeExists = errors.New("code already exists")

// ErrNotFound возвращается, когда ссылка с заданным кодом отсутствует в хранилище
var ErrNotFound = errors.New("link not found")

// ErrStoreUnavailable оборачивает ошибки ввода-вывода хранилища
var ErrStoreUnavailable = errors.New("store unavailable")

// Repository определяет интерфейс для работы с хранилищем ссылок
type Repository interface {
	// FindByCode возвращает ссылку по коду или ErrNotFound
	FindByCode(ctx context.Context, code string) (models.Link, error)
	// FindByOwner возвращает все ссылки пользователя, порядок не гарантируется
	FindByOwner(ctx context.Context, ownerID string) ([]models.Link, error)
	// Insert сохраняет ссылку, присваивает ей ID и возвращает сохранённую запись.
	// При коллизии кода возвращает ErrCodeExists; вставка атомарна относительно
	// конкурентных вызовов
	Insert(ctx context.Context, link models.Link) (models.Link, error)
	// IncrementClicks атомарно увеличивает счётчик переходов и возвращает новое значение
	IncrementClicks(ctx context.Context, code string) (int64, error)
	// Stats возвращает сводные показатели по всем ссылкам
	Stats(ctx context.Context) (models.Stats, error)
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// PingContext проверяет соединение с базой данных
	PingContext(ctx context.Context) error
	// Close закрывает соединение с базой данных
	Close() error
	// ExecContext выполняет SQL-команду без возврата результатов
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	// QueryContext выполняет SQL-запрос и возвращает результаты
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	// QueryRowContext выполняет SQL-запрос и возвращает одну строку результата
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
