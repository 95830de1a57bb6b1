package events

import "time"

// Event types
const (
	AccountCreated = "account.created"
	AccountDeleted = "account.deleted"
	BalanceUpdated = "balance.updated"

	TransactionCreated = "transaction.created"
)

// Stream names. For NATS and Kafka they double as subject and topic; for
// RabbitMQ they are routing keys on the ledger exchange.
const (
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Event is the envelope every publisher writes.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountCreatedEvent struct {
	AccountID     int64   `json:"account_id"`
	UserID        int64   `json:"user_id"`
	AccountNumber string  `json:"account_number"`
	AccountType   string  `json:"account_type"`
	Balance       float64 `json:"balance"`
}

type AccountDeletedEvent struct {
	AccountID     int64  `json:"account_id"`
	AccountNumber string `json:"account_number"`
}

// BalanceUpdatedEvent.Operation is "deposit", "withdraw" or "overwrite".
type BalanceUpdatedEvent struct {
	AccountID  int64   `json:"account_id"`
	Operation  string  `json:"operation"`
	OldBalance float64 `json:"old_balance"`
	NewBalance float64 `json:"new_balance"`
	Change     float64 `json:"change"`
}

type TransactionCreatedEvent struct {
	TransactionID int64   `json:"transaction_id"`
	AccountID     int64   `json:"account_id"`
	Amount        float64 `json:"amount"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	BalanceAfter  float64 `json:"balance_after"`
}
