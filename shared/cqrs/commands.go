package cqrs

// ---------- Account commands ----------

// CreateAccountCommand carries already-typed fields; range and enum checks
// happen in models.NewAccount. A nil InitialBalance means zero.
type CreateAccountCommand struct {
	UserID         int64
	AccountNumber  string
	AccountType    string
	InitialBalance *float64
}

type DepositCommand struct {
	AccountID int64
	Amount    float64
}

type WithdrawCommand struct {
	AccountID int64
	Amount    float64
}

// OverwriteBalanceCommand backs the deprecated PUT /accounts/{id}/balance.
type OverwriteBalanceCommand struct {
	AccountID int64
	Balance   float64
}

type DeleteAccountCommand struct {
	AccountID int64
}

// ---------- Transaction commands ----------

type CreateTransactionCommand struct {
	AccountID    int64
	Amount       float64
	Type         string
	Description  string
	BalanceAfter float64
	Status       string
}
