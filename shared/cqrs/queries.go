package cqrs

import (
	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
)

// ---------- Account queries ----------

type GetAccountQuery struct {
	AccountID int64
}

// ListAccountsQuery filters on every non-nil / non-empty field.
type ListAccountsQuery struct {
	UserID      *int64
	AccountType string
	IsActive    *bool
	store.ListParams
}

type AccountList struct {
	Accounts   []models.Account  `json:"accounts"`
	Total      int               `json:"total"`
	Pagination *store.Pagination `json:"pagination,omitempty"`
}

// ---------- Transaction queries ----------

type GetTransactionQuery struct {
	TransactionID int64
}

// ListTransactionsQuery filters on every non-nil / non-empty field.
type ListTransactionsQuery struct {
	AccountID *int64
	Type      string
	Status    string
	store.ListParams
}

type TransactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
	Pagination   *store.Pagination    `json:"pagination,omitempty"`
}
