package postgres

import (
	"context"
	"fmt"
	"points-wallet/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, conn string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// pgTx adapts pgx.Tx to the repository.Tx handle the services hold.
type pgTx struct {
	pgx.Tx
}

func (s *Storage) Begin(ctx context.Context) (repository.Tx, error) {
	const op = "storage.Postgres.Begin"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pgTx{Tx: tx}, nil
}

// txOf unwraps the handle back to a pgx transaction. Passing a handle that
// did not come from Begin is a programming error.
func txOf(tx repository.Tx) pgx.Tx {
	return tx.(pgTx).Tx
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}
