package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"points-wallet/internal/domain/dto"
	"points-wallet/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (dto.BalanceResponse, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) (dto.TransactionListResponse, error)
}

type UserHandler struct {
	log         *slog.Logger
	userService UserService
}

func NewUserHandler(log *slog.Logger, userService UserService) *UserHandler {
	return &UserHandler{
		log:         log,
		userService: userService,
	}
}

// GetPoints
// @Summary Get the caller's point balance
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.BalanceResponse "Current balance"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/users/points [get]
func (h *UserHandler) GetPoints(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	balance, err := h.userService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// ListTransactions
// @Summary List the caller's ledger entries, most recent first
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.TransactionListResponse "Transactions"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal error"
// @Router /api/transactions [get]
func (h *UserHandler) ListTransactions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
		return
	}

	transactions, err := h.userService.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, transactions)
}
