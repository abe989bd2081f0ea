package models

import (
	"github.com/google/uuid"
	"time"
)

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusExpired   TransferStatus = "expired"
)

// Transfer is a pending-window point transfer between two users.
// pending is the only non-terminal status: once a row is completed or
// expired it never transitions again.
type Transfer struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	FromUserID uuid.UUID      `json:"from_user_id" db:"from_user_id"`
	ToUserID   uuid.UUID      `json:"to_user_id" db:"to_user_id"`
	Points     int            `json:"points" db:"points"`
	Status     TransferStatus `json:"status" db:"status"`
	ExpiresAt  time.Time      `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}
