package mocks

import (
	"context"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type TransferRepositoryMock struct {
	mock.Mock
}

func (m *TransferRepositoryMock) CreateTransfer(ctx context.Context, transfer models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *TransferRepositoryMock) GetTransferById(ctx context.Context, transferID uuid.UUID) (models.Transfer, error) {
	args := m.Called(ctx, transferID)
	return args.Get(0).(models.Transfer), args.Error(1)
}

func (m *TransferRepositoryMock) GetTransferByIdForUpdate(ctx context.Context, tx repository.Tx, transferID uuid.UUID) (models.Transfer, error) {
	args := m.Called(ctx, tx, transferID)
	return args.Get(0).(models.Transfer), args.Error(1)
}

func (m *TransferRepositoryMock) UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status models.TransferStatus) (int64, error) {
	args := m.Called(ctx, transferID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TransferRepositoryMock) UpdateTransferStatusTx(ctx context.Context, tx repository.Tx, transferID uuid.UUID, status models.TransferStatus) (int64, error) {
	args := m.Called(ctx, tx, transferID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TransferRepositoryMock) ExpireOverduePending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
