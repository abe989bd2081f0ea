package mocks

import (
	"context"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type BalanceRepositoryMock struct {
	mock.Mock
}

func (m *BalanceRepositoryMock) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *BalanceRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *BalanceRepositoryMock) GetPointsForUpdate(ctx context.Context, tx repository.Tx, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, tx, userID)
	return args.Int(0), args.Error(1)
}

func (m *BalanceRepositoryMock) IncrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error {
	args := m.Called(ctx, tx, userID, points)
	return args.Error(0)
}

func (m *BalanceRepositoryMock) DecrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error {
	args := m.Called(ctx, tx, userID, points)
	return args.Error(0)
}
