package mocks

import (
	"context"
	"points-wallet/internal/repository"

	"github.com/stretchr/testify/mock"
)

type TxMock struct {
	mock.Mock
}

func (m *TxMock) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *TxMock) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type TxManagerMock struct {
	mock.Mock
}

func (m *TxManagerMock) Begin(ctx context.Context) (repository.Tx, error) {
	args := m.Called(ctx)
	return args.Get(0).(repository.Tx), args.Error(1)
}
