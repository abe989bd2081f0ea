package mocks

import (
	"context"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TransactionRepositoryMock struct {
	mock.Mock
}

func (m *TransactionRepositoryMock) SaveTransaction(ctx context.Context, tx repository.Tx, transaction models.Transaction) error {
	args := m.Called(ctx, tx, transaction)
	return args.Error(0)
}

func (m *TransactionRepositoryMock) GetTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset uint64) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}
