package dto

// swagger:model
type CreateTransferRequest struct {
	ToEmail string `json:"to_email" example:"jane@example.com"`
	Points  int    `json:"points" example:"100"`
}
