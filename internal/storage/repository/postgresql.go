// Package repository реализует хранилище планировщика на основе PostgreSQL:
// закрепления клиентов за тренерами, запланированные тренировки и
// зеркальные проекции встречного сервиса.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "repository.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных: миграции применены
// и опорная таблица сервиса существует.
func CheckDatabaseReady(storage *Storage, table string) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = $1
    )`, table).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table %s missing or query error: %w", table, err)
	}
	return nil
}
