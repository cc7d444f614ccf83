package app

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/ovseenko/linkcut/internal/repository"
)

// Схема хранилища: уникальный индекс на code — точка, в которой
// обеспечивается глобальная уникальность коротких кодов
const schema = `
    CREATE TABLE IF NOT EXISTS links (
        id BIGSERIAL PRIMARY KEY,
        owner_id VARCHAR NOT NULL,
        original_url TEXT NOT NULL,
        code VARCHAR(10) UNIQUE NOT NULL,
        click_count BIGINT NOT NULL DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    )`

// NewDB открывает подключение к базе данных и готовит схему.
// При пустом DSN возвращает nil: сервис работает на файловом
// или in-memory хранилище
func NewDB(ctx context.Context, dsn string) (repository.Database, error) {
	if dsn == "" {
		return nil, nil
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := conn.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS links_owner_id_idx ON links (owner_id)"); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
