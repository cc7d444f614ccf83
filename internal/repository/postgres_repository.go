package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ovseenko/linkcut/internal/models"
	"go.uber.org/zap"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

// PostgresRepository реализует интерфейс Repository с использованием PostgreSQL
type PostgresRepository struct {
	db     Database
	logger *zap.Logger
}

// NewPostgresRepository создаёт новый экземпляр PostgresRepository
func NewPostgresRepository(db Database, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

// FindByCode возвращает ссылку по коду
func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (models.Link, error) {
	var link models.Link
	err := r.db.QueryRowContext(ctx,
		"SELECT id, owner_id, original_url, code, click_count FROM links WHERE code = $1", code).
		Scan(&link.ID, &link.OwnerID, &link.OriginalURL, &link.Code, &link.ClickCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Link{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to query link by code", zap.String("code", code), zap.Error(err))
		return models.Link{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return link, nil
}

// FindByOwner возвращает все ссылки пользователя
func (r *PostgresRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, owner_id, original_url, code, click_count FROM links WHERE owner_id = $1", ownerID)
	if err != nil {
		r.logger.Error("Failed to query links by owner", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(&link.ID, &link.OwnerID, &link.OriginalURL, &link.Code, &link.ClickCount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return links, nil
}

// Insert сохраняет ссылку и присваивает ей ID.
// Уникальность кода обеспечивается уникальным индексом: конкурентная вставка
// того же кода завершится нарушением ограничения, а не потерянной записью
func (r *PostgresRepository) Insert(ctx context.Context, link models.Link) (models.Link, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO links (owner_id, original_url, code) VALUES ($1, $2, $3) RETURNING id",
		link.OwnerID, link.OriginalURL, link.Code).
		Scan(&link.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.Link{}, ErrCodeExists
		}
		r.logger.Error("Failed to insert link", zap.String("code", link.Code), zap.Error(err))
		return models.Link{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	link.ClickCount = 0
	return link, nil
}

// IncrementClicks атомарно увеличивает счётчик переходов.
// Инкремент выполняется одним UPDATE на стороне базы, без чтения-модификации-записи
func (r *PostgresRepository) IncrementClicks(ctx context.Context, code string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"UPDATE links SET click_count = click_count + 1 WHERE code = $1 RETURNING click_count", code).
		Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to increment clicks", zap.String("code", code), zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

// Stats возвращает сводные показатели по всем ссылкам
func (r *PostgresRepository) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(click_count), 0) FROM links").
		Scan(&stats.Links, &stats.Clicks)
	if err != nil {
		r.logger.Error("Failed to query stats", zap.Error(err))
		return models.Stats{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return stats, nil
}
