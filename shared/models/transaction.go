package models

import (
	"math"
	"time"
	"unicode/utf8"
)

const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeTransfer   = "transfer"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	MaxAccountID         = math.MaxInt32
	MaxDescriptionLength = 200
)

// Transaction is a write-once log entry. AccountID is an opaque reference:
// nothing checks that the account exists, and BalanceAfter is whatever the
// caller asserted.
type Transaction struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	Amount       float64   `json:"amount"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	BalanceAfter float64   `json:"balance_after"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewTransaction validates the fields of a transaction record. An empty
// status defaults to completed.
func NewTransaction(accountID int64, amount float64, txType string, balanceAfter float64, description, status string) (*Transaction, error) {
	if accountID <= 0 || accountID > MaxAccountID {
		return nil, ErrInvalidAccountID
	}
	if !IsValidTransactionType(txType) {
		return nil, ErrInvalidType
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, newValidationError(CodeInvalidAmount, "amount", "Amount must be a finite, non-negative number")
	}
	if math.IsNaN(balanceAfter) || math.IsInf(balanceAfter, 0) {
		return nil, ErrInvalidBalanceAfter
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, ErrInvalidDescription
	}
	if status == "" {
		status = StatusCompleted
	}
	if !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	return &Transaction{
		AccountID:    accountID,
		Amount:       amount,
		Type:         txType,
		Description:  description,
		BalanceAfter: balanceAfter,
		Status:       status,
		Timestamp:    now(),
	}, nil
}

func IsValidTransactionType(txType string) bool {
	switch txType {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer:
		return true
	}
	return false
}

// IsValidStatus accepts only the canonical spelling "completed"; the legacy
// "complete" is rejected.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
