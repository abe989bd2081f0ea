package dto

import (
	"github.com/google/uuid"
)

type UserDTO struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	Email  string    `json:"email" db:"email"`
	Points int       `json:"points" db:"points"`
}

// swagger:model
type BalanceResponse struct {
	Points int `json:"points" example:"500"`
}
