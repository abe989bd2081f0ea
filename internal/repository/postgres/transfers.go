package postgres

import (
	"context"
	"errors"
	"fmt"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/repository"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const transferColumns = "id, from_user_id, to_user_id, points, status, expires_at, created_at, updated_at"

func scanTransfer(row pgx.Row) (models.Transfer, error) {
	var t models.Transfer
	err := row.Scan(&t.ID, &t.FromUserID, &t.ToUserID, &t.Points, &t.Status, &t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Storage) CreateTransfer(ctx context.Context, transfer models.Transfer) error {
	const op = "storage.Postgres.CreateTransfer"

	sql, args, err := squirrel.Insert("transfers").
		Columns("id", "from_user_id", "to_user_id", "points", "status", "expires_at", "created_at", "updated_at").
		Values(transfer.ID, transfer.FromUserID, transfer.ToUserID, transfer.Points,
			transfer.Status, transfer.ExpiresAt, time.Now(), time.Now()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, repository.ErrTransferConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetTransferById(ctx context.Context, transferID uuid.UUID) (models.Transfer, error) {
	const op = "storage.Postgres.GetTransferById"

	sql, args, err := squirrel.Select(transferColumns).
		From("transfers").
		Where(squirrel.Eq{"id": transferID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Transfer{}, fmt.Errorf("%s: %w", op, err)
	}

	transfer, err := scanTransfer(s.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transfer{}, fmt.Errorf("%s: %w", op, repository.ErrTransferNotFound)
		}
		return models.Transfer{}, fmt.Errorf("%s: %w", op, err)
	}

	return transfer, nil
}

// GetTransferByIdForUpdate locks the transfer row for the rest of tx. Two
// confirms racing on one transfer serialize here: the loser re-reads a
// non-pending status once the winner commits.
func (s *Storage) GetTransferByIdForUpdate(ctx context.Context, tx repository.Tx, transferID uuid.UUID) (models.Transfer, error) {
	const op = "storage.Postgres.GetTransferByIdForUpdate"

	sql, args, err := squirrel.Select(transferColumns).
		From("transfers").
		Where(squirrel.Eq{"id": transferID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Transfer{}, fmt.Errorf("%s: %w", op, err)
	}

	transfer, err := scanTransfer(txOf(tx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transfer{}, fmt.Errorf("%s: %w", op, repository.ErrTransferNotFound)
		}
		return models.Transfer{}, fmt.Errorf("%s: %w", op, err)
	}

	return transfer, nil
}

// UpdateTransferStatus transitions a row out of pending. The status guard
// makes the call a no-op when the sweeper or a rival confirm got there first;
// the affected count tells the caller whether it won.
func (s *Storage) UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status models.TransferStatus) (int64, error) {
	const op = "storage.Postgres.UpdateTransferStatus"

	sql, args, err := squirrel.Update("transfers").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": transferID, "status": models.TransferStatusPending}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cmdTag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}

func (s *Storage) UpdateTransferStatusTx(ctx context.Context, tx repository.Tx, transferID uuid.UUID, status models.TransferStatus) (int64, error) {
	const op = "storage.Postgres.UpdateTransferStatusTx"

	sql, args, err := squirrel.Update("transfers").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": transferID, "status": models.TransferStatusPending}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cmdTag, err := txOf(tx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}

// ExpireOverduePending bulk-flips every overdue pending transfer to expired.
// Idempotent: a second run over the same overdue set affects zero rows.
func (s *Storage) ExpireOverduePending(ctx context.Context) (int64, error) {
	const op = "storage.Postgres.ExpireOverduePending"

	sql, args, err := squirrel.Update("transfers").
		Set("status", models.TransferStatusExpired).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"status": models.TransferStatusPending}).
		Where(squirrel.Lt{"expires_at": time.Now()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cmdTag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}
