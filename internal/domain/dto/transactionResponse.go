package dto

import (
	"time"

	"github.com/google/uuid"
)

// swagger:model
type TransactionDTO struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type" example:"debit"`
	Points    int       `json:"points" example:"100"`
	CreatedAt time.Time `json:"created_at"`
}

// swagger:model
type TransactionListResponse struct {
	Transactions []TransactionDTO `json:"transactions"`
	Limit        int              `json:"limit" example:"50"`
	Offset       int              `json:"offset" example:"0"`
}
