package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/memoria/internal/models"
)

type MemoryRepo struct {
	DB DBTX
}

const memoryColumns = `id, user_id, type, title, description, file_key, content_type, size, tags, status, created_at`

const createMemory = `-- name: CreateMemory
INSERT INTO memories (id, user_id, type, title, description, file_key, content_type, size, tags, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + memoryColumns

func (r *MemoryRepo) CreateMemory(ctx context.Context, m models.Memory) (models.Memory, error) {
	if m.Tags == nil {
		m.Tags = []string{}
	}

	rows, _ := r.DB.Query(ctx, createMemory,
		m.ID, m.UserID, m.Type, m.Title, m.Description, m.FileKey, m.ContentType, m.Size, m.Tags, m.Status, m.CreatedAt,
	)
	memory, err := pgx.CollectOneRow(rows, rowToMemory)
	if err != nil {
		return memory, fmt.Errorf("db error: %w", err)
	}

	return memory, nil
}

const listMemories = `-- name: ListMemories
SELECT ` + memoryColumns + ` FROM memories
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *MemoryRepo) ListMemories(ctx context.Context, userID uuid.UUID) ([]models.Memory, error) {
	rows, _ := r.DB.Query(ctx, listMemories, userID)
	memories, err := pgx.CollectRows(rows, rowToMemory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return memories, nil
}

func rowToMemory(row pgx.CollectableRow) (models.Memory, error) {
	var m models.Memory
	err := row.Scan(&m.ID, &m.UserID, &m.Type, &m.Title, &m.Description, &m.FileKey, &m.ContentType, &m.Size, &m.Tags, &m.Status, &m.CreatedAt)
	return m, err
}
