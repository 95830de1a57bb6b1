package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/middleware"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/gin-gonic/gin"
)

const transactionNotFound = "Transaction not found"

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(context.Context, cqrs.CreateTransactionCommand) (*models.Transaction, error)
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(context.Context, cqrs.GetTransactionQuery) (*models.Transaction, error)
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) (*cqrs.TransactionList, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

type CreateTransactionRequest struct {
	AccountID    any    `json:"account_id"`
	Amount       any    `json:"amount"`
	Type         string `json:"type"`
	Description  string `json:"description" validate:"max=200" code:"InvalidDescription"`
	BalanceAfter any    `json:"balance_after"`
	Status       string `json:"status"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) RegisterRoutes(r gin.IRouter) {
	transactions := r.Group("/transactions")
	transactions.POST("", h.CreateTransaction)
	transactions.GET("", h.ListTransactions)
	transactions.GET("/:id", h.GetTransaction)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	cmd, err := req.command()
	if err != nil {
		middleware.RespondWithServiceError(c, err, transactionNotFound)
		return
	}

	transaction, err := h.commands.CreateTransaction(c.Request.Context(), cmd)
	if err != nil {
		middleware.RespondWithServiceError(c, err, transactionNotFound)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// command converts the loosely-typed request, checking fields in the same
// order as models.NewTransaction.
func (req CreateTransactionRequest) command() (cqrs.CreateTransactionCommand, error) {
	accountID, err := models.ParseAccountID(req.AccountID)
	if err != nil {
		return cqrs.CreateTransactionCommand{}, err
	}
	if !models.IsValidTransactionType(req.Type) {
		return cqrs.CreateTransactionCommand{}, models.ErrInvalidType
	}
	amount, err := models.ParseAmount(req.Amount)
	if err != nil {
		return cqrs.CreateTransactionCommand{}, err
	}
	balanceAfter, err := models.ParseBalanceAfter(req.BalanceAfter)
	if err != nil {
		return cqrs.CreateTransactionCommand{}, err
	}
	return cqrs.CreateTransactionCommand{
		AccountID:    accountID,
		Amount:       amount,
		Type:         req.Type,
		Description:  req.Description,
		BalanceAfter: balanceAfter,
		Status:       req.Status,
	}, nil
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	params, err := middleware.ListParams(c, "timestamp", "desc")
	if err != nil {
		middleware.RespondWithServiceError(c, err, transactionNotFound)
		return
	}

	list, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		AccountID:  middleware.QueryInt64(c, "account_id"),
		Type:       c.Query("type"),
		Status:     c.Query("status"),
		ListParams: params,
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err, transactionNotFound)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	transaction, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{TransactionID: id})
	if err != nil {
		middleware.RespondWithServiceError(c, err, transactionNotFound)
		return
	}

	c.JSON(http.StatusOK, transaction)
}
