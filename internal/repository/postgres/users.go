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

func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.Postgres.SaveUser"

	sql, args, err := squirrel.Insert("users").
		Columns("id", "name", "email", "password", "points", "created_at", "updated_at").
		Values(user.ID, user.Name, user.Email, user.Password, user.Points, time.Now(), time.Now()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.db.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, repository.ErrUserAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "storage.Postgres.GetUserById"

	sql, args, err := squirrel.Select("id", "name", "email", "password", "points", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	err = s.db.QueryRow(ctx, sql, args...).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Points, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.Postgres.GetUserByEmail"

	sql, args, err := squirrel.Select("id", "name", "email", "password", "points", "created_at", "updated_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	err = s.db.QueryRow(ctx, sql, args...).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Points, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// GetPointsForUpdate reads the sender's balance under an exclusive row lock.
// The lock is held until tx commits or rolls back, so a funds check made on
// the returned value stays valid for mutations inside the same tx.
func (s *Storage) GetPointsForUpdate(ctx context.Context, tx repository.Tx, userID uuid.UUID) (int, error) {
	const op = "storage.Postgres.GetPointsForUpdate"

	sql, args, err := squirrel.Select("points").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var points int
	err = txOf(tx).QueryRow(ctx, sql, args...).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return points, nil
}

func (s *Storage) IncrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error {
	const op = "storage.Postgres.IncrementPoints"

	sql, args, err := squirrel.Update("users").
		Set("points", squirrel.Expr("points + ?", points)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
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

func (s *Storage) DecrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error {
	const op = "storage.Postgres.DecrementPoints"

	sql, args, err := squirrel.Update("users").
		Set("points", squirrel.Expr("points - ?", points)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		Where("points >= ?", points).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cmdTag, err := txOf(tx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// caller must have confirmed funds under GetPointsForUpdate first
		return fmt.Errorf("%s: %w", op, repository.ErrInsufficientPoints)
	}

	return nil
}
