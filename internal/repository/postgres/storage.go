package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/memoria/internal/repository"
)

// Subset of pgx methods used by repositories
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so repos may work inside transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Revoked() repository.RevokedTokenRepo {
	return &RevokedTokenRepo{DB: s.db}
}

func (s *Storage) Memory() repository.MemoryRepo {
	return &MemoryRepo{DB: s.db}
}
