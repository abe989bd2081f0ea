package dto

import (
	"time"

	"github.com/google/uuid"
)

// swagger:model
type TransferResponse struct {
	ID        uuid.UUID `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Status    string    `json:"status" example:"pending"`
	ExpiresAt time.Time `json:"expires_at"`
}
