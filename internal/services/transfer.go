package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"points-wallet/internal/domain/dto"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/metrics"
	"points-wallet/internal/repository"
	"time"

	"github.com/google/uuid"
)

// TransferService is the settlement engine. It owns the
// pending -> completed/expired state machine and performs the balance
// mutation, status flip and double-entry logging as one database transaction.
type TransferService struct {
	log                   *slog.Logger
	transferRepository    TransferRepository
	balanceRepository     BalanceRepository
	transactionRepository TransactionRepository
	txManager             TxManager
	expiryWindow          time.Duration
}

type TransferRepository interface {
	CreateTransfer(ctx context.Context, transfer models.Transfer) error
	GetTransferById(ctx context.Context, transferID uuid.UUID) (models.Transfer, error)
	GetTransferByIdForUpdate(ctx context.Context, tx repository.Tx, transferID uuid.UUID) (models.Transfer, error)
	UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status models.TransferStatus) (int64, error)
	UpdateTransferStatusTx(ctx context.Context, tx repository.Tx, transferID uuid.UUID, status models.TransferStatus) (int64, error)
	ExpireOverduePending(ctx context.Context) (int64, error)
}

type BalanceRepository interface {
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetPointsForUpdate(ctx context.Context, tx repository.Tx, userID uuid.UUID) (int, error)
	IncrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error
	DecrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error
}

type TransactionRepository interface {
	SaveTransaction(ctx context.Context, tx repository.Tx, transaction models.Transaction) error
}

type TxManager interface {
	Begin(ctx context.Context) (repository.Tx, error)
}

func NewTransferService(log *slog.Logger, transferRepository TransferRepository, balanceRepository BalanceRepository,
	transactionRepository TransactionRepository, txManager TxManager, expiryWindow time.Duration) *TransferService {
	return &TransferService{
		log:                   log,
		transferRepository:    transferRepository,
		balanceRepository:     balanceRepository,
		transactionRepository: transactionRepository,
		txManager:             txManager,
		expiryWindow:          expiryWindow,
	}
}

// CreateTransfer opens a pending transfer from the caller to the user behind
// toEmail. The funds check here is optimistic only; the authoritative check
// happens at confirmation time under the sender's row lock.
func (s *TransferService) CreateTransfer(ctx context.Context, fromUserID uuid.UUID, toEmail string, points int) (dto.TransferResponse, error) {
	const op = "services.TransferService.CreateTransfer"

	log := s.log.With(
		slog.String("op", op),
		slog.String("from_user_id", fromUserID.String()),
		slog.Int("points", points),
	)

	if points <= 0 {
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidPoints)
	}

	sender, err := s.balanceRepository.GetUserById(ctx, fromUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// the caller id comes from an authenticated token, so a miss here
			// means the token outlived the row
			return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to load sender", slog.String("error", err.Error()))
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	recipient, err := s.balanceRepository.GetUserByEmail(ctx, toEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrRecipientNotFound)
		}
		log.Error("failed to resolve recipient", slog.String("error", err.Error()))
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if sender.ID == recipient.ID {
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrSelfTransfer)
	}

	if sender.Points < points {
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrInsufficientPoints)
	}

	transfer := models.Transfer{
		ID:         uuid.New(),
		FromUserID: sender.ID,
		ToUserID:   recipient.ID,
		Points:     points,
		Status:     models.TransferStatusPending,
		ExpiresAt:  time.Now().Add(s.expiryWindow),
	}

	if err := s.transferRepository.CreateTransfer(ctx, transfer); err != nil {
		if errors.Is(err, repository.ErrTransferConflict) {
			return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrTransferConflict)
		}
		log.Error("failed to create transfer", slog.String("error", err.Error()))
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.TransferCreated()

	log.Info("transfer created", slog.String("transfer_id", transfer.ID.String()))

	return dto.TransferResponse{
		ID:        transfer.ID,
		Status:    string(transfer.Status),
		ExpiresAt: transfer.ExpiresAt,
	}, nil
}

// ConfirmTransfer settles a pending transfer. Only the sender may confirm.
// The pending and expiry checks before the transaction are advisory; the
// checks under the row locks inside settle are the ones that count, which is
// what makes two racing confirms resolve to exactly one settlement.
func (s *TransferService) ConfirmTransfer(ctx context.Context, callerUserID, transferID uuid.UUID) (dto.TransferResponse, error) {
	const op = "services.TransferService.ConfirmTransfer"

	log := s.log.With(
		slog.String("op", op),
		slog.String("transfer_id", transferID.String()),
		slog.String("caller_user_id", callerUserID.String()),
	)

	transfer, err := s.transferRepository.GetTransferById(ctx, transferID)
	if err != nil {
		if errors.Is(err, repository.ErrTransferNotFound) {
			return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrTransferNotFound)
		}
		log.Error("failed to load transfer", slog.String("error", err.Error()))
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if transfer.FromUserID != callerUserID {
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrNotTransferOwner)
	}

	if transfer.Status != models.TransferStatusPending {
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, &InvalidStateError{Status: string(transfer.Status)})
	}

	if time.Now().After(transfer.ExpiresAt) {
		// lazy expiry; the status guard in the update keeps this a no-op when
		// the sweeper already flipped the row
		if _, uerr := s.transferRepository.UpdateTransferStatus(ctx, transferID, models.TransferStatusExpired); uerr != nil {
			log.Error("failed to expire transfer", slog.String("error", uerr.Error()))
			return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, uerr)
		}
		metrics.TransferExpired(1)
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, ErrTransferExpired)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.settle(ctx, tx, transfer); err != nil {
		_ = tx.Rollback(ctx)
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		log.Error("failed to commit settlement", slog.String("error", err.Error()))
		return dto.TransferResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.TransferSettled()

	log.Info("transfer settled", slog.Int("points", transfer.Points))

	return dto.TransferResponse{
		ID:        transfer.ID,
		Status:    string(models.TransferStatusCompleted),
		ExpiresAt: transfer.ExpiresAt,
	}, nil
}

// settle runs the atomic part of confirmation inside tx: re-lock the transfer
// row, lock the sender's balance, re-check funds, move the points, flip the
// status and append the debit/credit pair. Any error aborts the whole unit.
func (s *TransferService) settle(ctx context.Context, tx repository.Tx, transfer models.Transfer) error {
	locked, err := s.transferRepository.GetTransferByIdForUpdate(ctx, tx, transfer.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTransferNotFound) {
			return ErrTransferNotFound
		}
		return err
	}

	if locked.Status != models.TransferStatusPending {
		// a rival confirm or the sweeper won the lock first
		if locked.Status == models.TransferStatusExpired {
			return ErrTransferExpired
		}
		return &InvalidStateError{Status: string(locked.Status)}
	}

	points, err := s.balanceRepository.GetPointsForUpdate(ctx, tx, locked.FromUserID)
	if err != nil {
		return err
	}
	if points < locked.Points {
		// funds moved between creation and confirmation
		return ErrInsufficientPoints
	}

	if err := s.balanceRepository.DecrementPoints(ctx, tx, locked.FromUserID, locked.Points); err != nil {
		return err
	}
	if err := s.balanceRepository.IncrementPoints(ctx, tx, locked.ToUserID, locked.Points); err != nil {
		return err
	}

	affected, err := s.transferRepository.UpdateTransferStatusTx(ctx, tx, locked.ID, models.TransferStatusCompleted)
	if err != nil {
		return err
	}
	if affected == 0 {
		// unreachable while we hold the row lock
		return &InvalidStateError{Status: string(locked.Status)}
	}

	debit := models.Transaction{
		ID:     uuid.New(),
		UserID: locked.FromUserID,
		Type:   models.TransactionTypeDebit,
		Points: locked.Points,
	}
	if err := s.transactionRepository.SaveTransaction(ctx, tx, debit); err != nil {
		return err
	}

	credit := models.Transaction{
		ID:     uuid.New(),
		UserID: locked.ToUserID,
		Type:   models.TransactionTypeCredit,
		Points: locked.Points,
	}
	if err := s.transactionRepository.SaveTransaction(ctx, tx, credit); err != nil {
		return err
	}

	return nil
}

// ExpireOverdue bulk-transitions overdue pending transfers to expired.
// Pending rows never moved funds, so there are no balance side effects.
func (s *TransferService) ExpireOverdue(ctx context.Context) (int64, error) {
	const op = "services.TransferService.ExpireOverdue"

	count, err := s.transferRepository.ExpireOverduePending(ctx)
	if err != nil {
		s.log.Error("expiry sweep failed", slog.String("op", op), slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if count > 0 {
		metrics.TransferExpired(count)
		s.log.Info("expired overdue transfers", slog.String("op", op), slog.Int64("count", count))
	}

	return count, nil
}
