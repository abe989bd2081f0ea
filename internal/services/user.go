package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"points-wallet/internal/domain/dto"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/repository"

	"github.com/google/uuid"
)

const defaultTransactionLimit = 50

// UserService serves the read-only boundary: balances and transaction
// history. Reads here are unlocked and non-authoritative.
type UserService struct {
	log                   *slog.Logger
	userRepository        UserRepository
	transactionRepository TransactionReader
}

type UserRepository interface {
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TransactionReader interface {
	GetTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset uint64) ([]models.Transaction, error)
}

func NewUserService(log *slog.Logger, userRepository UserRepository, transactionRepository TransactionReader) *UserService {
	return &UserService{
		log:                   log,
		userRepository:        userRepository,
		transactionRepository: transactionRepository,
	}
}

func (s *UserService) GetBalance(ctx context.Context, userID uuid.UUID) (dto.BalanceResponse, error) {
	const op = "services.UserService.GetBalance"

	user, err := s.userRepository.GetUserById(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return dto.BalanceResponse{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		s.log.Error("failed to get balance", slog.String("op", op), slog.String("error", err.Error()))
		return dto.BalanceResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	return dto.BalanceResponse{Points: user.Points}, nil
}

// ListTransactions returns the user's ledger rows, most recent first.
func (s *UserService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) (dto.TransactionListResponse, error) {
	const op = "services.UserService.ListTransactions"

	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.transactionRepository.GetTransactionsByUser(ctx, userID, uint64(limit), uint64(offset))
	if err != nil {
		s.log.Error("failed to list transactions", slog.String("op", op), slog.String("error", err.Error()))
		return dto.TransactionListResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]dto.TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		items = append(items, dto.TransactionDTO{
			ID:        t.ID,
			Type:      string(t.Type),
			Points:    t.Points,
			CreatedAt: t.CreatedAt,
		})
	}

	return dto.TransactionListResponse{
		Transactions: items,
		Limit:        limit,
		Offset:       offset,
	}, nil
}
