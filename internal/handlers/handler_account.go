package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to iSwift accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/iswift-accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.createAccount)
		accounts.GET("/:id", h.getAccount)
		accounts.PATCH("/:id", h.updateAccount)
		accounts.POST("/:id/default", h.setDefault)
		accounts.DELETE("/:id/default", h.unsetDefault)
	}
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the accounts of the logged-in user
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/iswift-accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// createAccount godoc
// @Summary Create a new account
// @Description Opens an account in an active currency. The first account of a user is always the default.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid input or an account in this currency already exists"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown currency"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/iswift-accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create account", slog.String("currency_code", req.Currency))

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves an account with its currency and transaction history, newest first
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountDetailResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/iswift-accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.accountService.GetAccountDetail(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountDetailResponse(detail))
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames an account and/or changes whether it is the default
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/iswift-accounts/{id} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), userID, accountID, req)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// setDefault godoc
// @Summary Make an account the default
// @Description Incoming transfers are credited to the default account. Any other default is cleared.
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/iswift-accounts/{id}/default [post]
func (h *accountHandler) setDefault(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	account, err := h.accountService.SetDefault(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, err, "Failed to set default account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// unsetDefault godoc
// @Summary Stop an account being the default
// @Description The oldest other account becomes the default
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "No other account can become the default"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /finance/iswift-accounts/{id}/default [delete]
func (h *accountHandler) unsetDefault(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	account, err := h.accountService.UnsetDefault(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, err, "Failed to unset default account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
