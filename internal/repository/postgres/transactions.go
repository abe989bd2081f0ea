package postgres

import (
	"context"
	"fmt"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/repository"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// SaveTransaction appends a ledger row inside the caller's transaction so the
// debit/credit pair commits or rolls back with the settlement itself.
func (s *Storage) SaveTransaction(ctx context.Context, tx repository.Tx, transaction models.Transaction) error {
	const op = "storage.Postgres.SaveTransaction"

	sql, args, err := squirrel.Insert("transactions").
		Columns("id", "user_id", "type", "points", "created_at").
		Values(transaction.ID, transaction.UserID, transaction.Type, transaction.Points, time.Now()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = txOf(tx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset uint64) ([]models.Transaction, error) {
	const op = "storage.Postgres.GetTransactionsByUser"

	sql, args, err := squirrel.Select("id", "user_id", "type", "points", "created_at").
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Points, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}
