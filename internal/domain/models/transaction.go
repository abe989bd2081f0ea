package models

import (
	"github.com/google/uuid"
	"time"
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// Transaction is an append-only ledger row. Every settled transfer writes
// exactly two of these: a debit for the sender and a credit for the recipient.
type Transaction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Type      TransactionType `json:"type" db:"type"`
	Points    int             `json:"points" db:"points"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
