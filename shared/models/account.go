package models

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	AccountTypeSavings  = "savings"
	AccountTypeChecking = "checking"

	// MaxBalance is the inclusive upper bound on any account balance.
	MaxBalance = 1e9

	maxAccountNumberLen = 20
)

var maxBalance = decimal.NewFromFloat(MaxBalance)

// now is swapped in tests to control timestamps.
var now = func() time.Time { return time.Now().UTC() }

// Account is a balance-holding record keyed by a user and account number.
// Balance only changes through Deposit and Withdraw (plus the deprecated
// OverwriteBalance), each of which validates before mutating.
type Account struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Balance       float64   `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsActive      bool      `json:"is_active"`
}

// NewAccount validates every field and returns an unsaved account. A nil
// initialBalance means zero.
func NewAccount(userID int64, accountNumber, accountType string, initialBalance *float64) (*Account, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if accountNumber == "" || utf8.RuneCountInString(accountNumber) > maxAccountNumberLen {
		return nil, ErrInvalidAccountNumber
	}
	if !IsValidAccountType(accountType) {
		return nil, ErrInvalidAccountType
	}
	balance := 0.0
	if initialBalance != nil {
		balance = *initialBalance
	}
	if err := validateBalance(balance); err != nil {
		return nil, err
	}

	ts := now()
	return &Account{
		UserID:        userID,
		AccountNumber: accountNumber,
		AccountType:   accountType,
		Balance:       balance,
		CreatedAt:     ts,
		UpdatedAt:     ts,
		IsActive:      true,
	}, nil
}

func IsValidAccountType(accountType string) bool {
	return accountType == AccountTypeSavings || accountType == AccountTypeChecking
}

func validateBalance(balance float64) error {
	if math.IsNaN(balance) || math.IsInf(balance, 0) || balance < 0 {
		return ErrInvalidBalance
	}
	if balance > MaxBalance {
		return newValidationError(CodeInvalidBalance, "balance", "Balance is too large")
	}
	return nil
}

// Deposit adds amount to the balance. On error the account is unchanged.
func (a *Account) Deposit(amount float64) error {
	if !isPositiveFinite(amount) {
		return newValidationError(CodeInvalidAmount, "amount", "Deposit amount must be a positive number")
	}
	next := decimal.NewFromFloat(a.Balance).Add(decimal.NewFromFloat(amount))
	if next.GreaterThan(maxBalance) {
		return ErrBalanceTooLarge
	}
	a.Balance = next.InexactFloat64()
	a.touch()
	return nil
}

// Withdraw subtracts amount from the balance. On error the account is unchanged.
func (a *Account) Withdraw(amount float64) error {
	if !isPositiveFinite(amount) {
		return newValidationError(CodeInvalidAmount, "amount", "Withdrawal amount must be a positive number")
	}
	current := decimal.NewFromFloat(a.Balance)
	withdrawal := decimal.NewFromFloat(amount)
	if withdrawal.GreaterThan(current) {
		return ErrInsufficientFunds
	}
	a.Balance = current.Sub(withdrawal).InexactFloat64()
	a.touch()
	return nil
}

// OverwriteBalance replaces the balance outright.
//
// Deprecated: this is the legacy PUT /accounts/{id}/balance path. It only
// rejects negative or non-finite values and skips the deposit/withdraw rules,
// including the MaxBalance cap. Use Deposit and Withdraw.
func (a *Account) OverwriteBalance(balance float64) error {
	if math.IsNaN(balance) || math.IsInf(balance, 0) || balance < 0 {
		return ErrInvalidBalance
	}
	a.Balance = balance
	a.touch()
	return nil
}

// touch refreshes UpdatedAt without ever moving it backwards.
func (a *Account) touch() {
	ts := now()
	if ts.Before(a.UpdatedAt) {
		ts = a.UpdatedAt
	}
	a.UpdatedAt = ts
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
