package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/middleware"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/gin-gonic/gin"
)

const accountNotFound = "Account not found"

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
	Deposit(context.Context, cqrs.DepositCommand) (*models.Account, error)
	Withdraw(context.Context, cqrs.WithdrawCommand) (*models.Account, error)
	OverwriteBalance(context.Context, cqrs.OverwriteBalanceCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) error
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) (*cqrs.AccountList, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

// Numeric fields are decoded as `any` so that a wrong JSON type is reported
// as the field's own validation error.
type CreateAccountRequest struct {
	UserID         any    `json:"user_id"`
	AccountNumber  string `json:"account_number" validate:"required,max=20" code:"InvalidAccountNumber"`
	AccountType    string `json:"account_type" validate:"required,oneof=savings checking" code:"InvalidAccountType"`
	InitialBalance any    `json:"initial_balance"`
}

type AmountRequest struct {
	Amount any `json:"amount"`
}

type BalanceRequest struct {
	Balance any `json:"balance"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

// RegisterRoutes mounts the account endpoints on r. The deprecated balance
// overwrite route is only mounted when legacyOverwrite is set.
func (h *AccountHandler) RegisterRoutes(r gin.IRouter, legacyOverwrite bool) {
	accounts := r.Group("/accounts")
	accounts.POST("", h.CreateAccount)
	accounts.GET("", h.ListAccounts)
	accounts.GET("/:id", h.GetAccount)
	accounts.POST("/:id/deposit", h.Deposit)
	accounts.POST("/:id/withdraw", h.Withdraw)
	accounts.DELETE("/:id", h.DeleteAccount)
	if legacyOverwrite {
		accounts.PUT("/:id/balance", h.OverwriteBalance)
	}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	userID, err := models.ParseUserID(req.UserID)
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}
	initialBalance, err := models.ParseOptionalBalance(req.InitialBalance)
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{
		UserID:         userID,
		AccountNumber:  req.AccountNumber,
		AccountType:    req.AccountType,
		InitialBalance: initialBalance,
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	params, err := middleware.ListParams(c, "id", "asc")
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	list, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{
		UserID:      middleware.QueryInt64(c, "user_id"),
		AccountType: c.Query("account_type"),
		IsActive:    middleware.QueryBool(c, "is_active"),
		ListParams:  params,
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{AccountID: id})
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Deposit(c *gin.Context) {
	id, amount, ok := bindAmount(c)
	if !ok {
		return
	}

	account, err := h.commands.Deposit(c.Request.Context(), cqrs.DepositCommand{AccountID: id, Amount: amount})
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Withdraw(c *gin.Context) {
	id, amount, ok := bindAmount(c)
	if !ok {
		return
	}

	account, err := h.commands.Withdraw(c.Request.Context(), cqrs.WithdrawCommand{AccountID: id, Amount: amount})
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	c.JSON(http.StatusOK, account)
}

// OverwriteBalance serves the deprecated PUT /accounts/:id/balance.
func (h *AccountHandler) OverwriteBalance(c *gin.Context) {
	c.Header("Deprecation", "true")
	log.Printf("[%s] deprecated endpoint PUT %s called", middleware.RequestID(c), c.Request.URL.Path)

	id, ok := accountID(c)
	if !ok {
		return
	}
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	balance, err := models.ParseOptionalBalance(req.Balance)
	if err == nil && balance == nil {
		err = models.ErrInvalidBalance
	}
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	account, err := h.commands.OverwriteBalance(c.Request.Context(), cqrs.OverwriteBalanceCommand{AccountID: id, Balance: *balance})
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{AccountID: id}); err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// accountID parses the :id path segment. An id that is not a positive
// integer cannot name an account, so it is answered with 404.
func accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(c, http.StatusNotFound, accountNotFound)
		return 0, false
	}
	return id, true
}

func bindAmount(c *gin.Context) (int64, float64, bool) {
	id, ok := accountID(c)
	if !ok {
		return 0, 0, false
	}
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return 0, 0, false
	}
	amount, err := models.ParseAmount(req.Amount)
	if err != nil {
		middleware.RespondWithServiceError(c, err, accountNotFound)
		return 0, 0, false
	}
	return id, amount, true
}
