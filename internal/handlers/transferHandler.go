package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"points-wallet/internal/domain/dto"
	"points-wallet/internal/middlewares"
	"points-wallet/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransferService interface {
	CreateTransfer(ctx context.Context, fromUserID uuid.UUID, toEmail string, points int) (dto.TransferResponse, error)
	ConfirmTransfer(ctx context.Context, callerUserID, transferID uuid.UUID) (dto.TransferResponse, error)
}

type TransferHandler struct {
	log             *slog.Logger
	transferService TransferService
}

func NewTransferHandler(log *slog.Logger, transferService TransferService) *TransferHandler {
	return &TransferHandler{
		log:             log,
		transferService: transferService,
	}
}

// callerID pulls the authenticated user id the auth middleware stored.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return uuid.Nil, false
	}

	return userID, true
}

// transferErrorStatus maps engine errors onto distinct status codes: 404 for
// missing rows, 400 for business-rule violations, 403 for a non-sender
// caller, 409 for settled/expired state and id collisions, 500 otherwise.
func transferErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrTransferNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRecipientNotFound),
		errors.Is(err, services.ErrSelfTransfer),
		errors.Is(err, services.ErrInvalidPoints),
		errors.Is(err, services.ErrInsufficientPoints):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotTransferOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrTransferNotPending), errors.Is(err, services.ErrTransferExpired):
		return http.StatusConflict
	case errors.Is(err, services.ErrTransferConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var transferErrorSentinels = []error{
	services.ErrUserNotFound,
	services.ErrTransferNotFound,
	services.ErrRecipientNotFound,
	services.ErrSelfTransfer,
	services.ErrInvalidPoints,
	services.ErrInsufficientPoints,
	services.ErrNotTransferOwner,
	services.ErrTransferExpired,
	services.ErrTransferConflict,
}

// transferErrorMessage strips the internal op chain and keeps the
// caller-safe sentinel text.
func transferErrorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "Server error"
	}

	var stateErr *services.InvalidStateError
	if errors.As(err, &stateErr) {
		return stateErr.Error()
	}

	for _, sentinel := range transferErrorSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	return err.Error()
}

// CreateTransfer
// @Summary Open a pending transfer to another user by email
// @Description The transfer stays confirmable for the pending window, then expires.
// @Tags transfers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param transfer body dto.CreateTransferRequest true "Transfer data"
// @Success 201 {object} dto.TransferResponse "Pending transfer"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/transfers [post]
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var input dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := middlewares.CheckTransfer(input.ToEmail, input.Points); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.CreateTransfer(c.Request.Context(), userID, input.ToEmail, input.Points)
	if err != nil {
		status := transferErrorStatus(err)
		c.JSON(status, gin.H{"error": transferErrorMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

// ConfirmTransfer
// @Summary Confirm a pending transfer
// @Description Settles the transfer atomically; only the sender may confirm.
// @Tags transfers
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transfer ID"
// @Success 200 {object} dto.TransferResponse "Settled transfer"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the sender"
// @Failure 404 {object} dto.ErrorResponse "Transfer not found"
// @Failure 409 {object} dto.ErrorResponse "Transfer already settled or expired"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/transfers/{id}/confirm [post]
func (h *TransferHandler) ConfirmTransfer(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer ID"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.ConfirmTransfer(c.Request.Context(), userID, transferID)
	if err != nil {
		status := transferErrorStatus(err)
		c.JSON(status, gin.H{"error": transferErrorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, transfer)
}
