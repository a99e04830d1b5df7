package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iswift/iswift_backend/internal/apperrors"
	"github.com/iswift/iswift_backend/internal/core/domain"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/middleware"
)

type transferHandler struct {
	transferService portssvc.TransferSvc
	historyService  portssvc.TransactionHistorySvc
}

func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvc, historyService portssvc.TransactionHistorySvc) {
	h := &transferHandler{
		transferService: transferService,
		historyService:  historyService,
	}

	rg.POST("/transfer", h.transfer)
	rg.GET("/transactions/:type/:id", h.getTransaction)
}

// transfer godoc
// @Summary Send money
// @Description Debits one of the caller's accounts once and credits the default account of every recipient, converting currencies where needed. All legs succeed or none do.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Sender account and recipients"
// @Success 201 {object} dto.DebitTransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input, insufficient funds or unknown recipient"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Sender and recipient account are the same"
// @Failure 404 {object} ErrorResponse "Sender account not found"
// @Failure 409 {object} ErrorResponse "Concurrent update, retry"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/transfer [post]
func (h *transferHandler) transfer(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	debit, err := h.transferService.Execute(c.Request.Context(), userID, req.AccountID, req.ToTransferRecipients(), req.Description)
	if err != nil {
		respondError(c, err, "Failed to complete transfer")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transfer completed",
		slog.String("debit_id", debit.DebitID),
		slog.Int("recipients", len(debit.Credits)))
	c.JSON(http.StatusCreated, dto.ToDebitTransactionResponse(*debit))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Returns a credit or debit record on one of the caller's accounts
// @Tags transfers
// @Produce  json
// @Param   type path string true "credit-transaction or debit-transaction"
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.DebitTransactionResponse
// @Success 200 {object} dto.CreditTransactionResponse
// @Failure 400 {object} ErrorResponse "Unknown transaction type"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/transactions/{type}/{id} [get]
func (h *transferHandler) getTransaction(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	txType := c.Param("type")
	if _, known := domain.ParseTransactionType(txType); !known {
		respondError(c, fmt.Errorf("%w: type must be %s or %s",
			apperrors.ErrValidation, domain.TransactionTypeCredit, domain.TransactionTypeDebit), "Invalid transaction type")
		return
	}
	transactionID, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.historyService.GetTransaction(c.Request.Context(), userID, txType, transactionID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionRecordResponse(record))
}
