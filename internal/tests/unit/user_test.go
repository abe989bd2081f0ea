package unit

import (
	"context"
	"errors"
	"log/slog"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/repository"
	"points-wallet/internal/services"
	"points-wallet/internal/tests/mocks"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetBalance_ReturnsPoints(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	balanceRepo := new(mocks.BalanceRepositoryMock)
	transactionRepo := new(mocks.TransactionRepositoryMock)
	balanceRepo.On("GetUserById", ctx, userID).
		Return(models.User{ID: userID, Points: 400}, nil).Once()

	service := services.NewUserService(slog.Default(), balanceRepo, transactionRepo)

	// Act
	balance, err := service.GetBalance(ctx, userID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 400, balance.Points)
	balanceRepo.AssertExpectations(t)
}

func TestUserService_GetBalance_MapsMissingUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	balanceRepo := new(mocks.BalanceRepositoryMock)
	transactionRepo := new(mocks.TransactionRepositoryMock)
	balanceRepo.On("GetUserById", ctx, userID).
		Return(models.User{}, repository.ErrUserNotFound).Once()

	service := services.NewUserService(slog.Default(), balanceRepo, transactionRepo)

	// Act
	_, err := service.GetBalance(ctx, userID)

	// Assert
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	balanceRepo.AssertExpectations(t)
}

func TestUserService_ListTransactions_AppliesDefaultPaging(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	rows := []models.Transaction{
		{ID: uuid.New(), UserID: userID, Type: models.TransactionTypeCredit, Points: 100, CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: userID, Type: models.TransactionTypeDebit, Points: 50, CreatedAt: time.Now().Add(-time.Hour)},
	}

	balanceRepo := new(mocks.BalanceRepositoryMock)
	transactionRepo := new(mocks.TransactionRepositoryMock)
	transactionRepo.On("GetTransactionsByUser", ctx, userID, uint64(50), uint64(0)).
		Return(rows, nil).Once()

	service := services.NewUserService(slog.Default(), balanceRepo, transactionRepo)

	// Act
	resp, err := service.ListTransactions(ctx, userID, 0, -5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 50, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, "credit", resp.Transactions[0].Type)
	assert.Equal(t, "debit", resp.Transactions[1].Type)
	transactionRepo.AssertExpectations(t)
}

func TestUserService_ListTransactions_PropagatesErrors(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userID := uuid.New()

	balanceRepo := new(mocks.BalanceRepositoryMock)
	transactionRepo := new(mocks.TransactionRepositoryMock)
	transactionRepo.On("GetTransactionsByUser", ctx, userID, uint64(10), uint64(20)).
		Return([]models.Transaction(nil), errors.New("db down")).Once()

	service := services.NewUserService(slog.Default(), balanceRepo, transactionRepo)

	// Act
	_, err := service.ListTransactions(ctx, userID, 10, 20)

	// Assert
	assert.ErrorContains(t, err, "db down")
	transactionRepo.AssertExpectations(t)
}
