package repository

import (
	"context"
	"database/sql"

	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
)

const transactionColumns = "id, account_id, amount, type, description, balance_after, status, timestamp"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.AccountID, &t.Amount, &t.Type,
		&t.Description, &t.BalanceAfter, &t.Status, &t.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TransactionWriteRepository handles all state-mutating operations for transactions.
// It operates exclusively against the PostgreSQL write store (source of truth).
// Transactions are write-once, so Insert is the only mutation.
type TransactionWriteRepository struct {
	db *sql.DB
	q  store.DBTX
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, q: db}
}

// InTx runs fn against a copy of the repository bound to a fresh transaction,
// committing only if fn succeeds.
func (r *TransactionWriteRepository) InTx(ctx context.Context, fn func(repo *TransactionWriteRepository) error) error {
	return store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&TransactionWriteRepository{db: r.db, q: tx})
	})
}

// Insert persists a validated transaction and assigns its id.
func (r *TransactionWriteRepository) Insert(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, amount, type, description, balance_after, status, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.q.QueryRowContext(ctx, query,
		transaction.AccountID, transaction.Amount, transaction.Type,
		transaction.Description, transaction.BalanceAfter, transaction.Status,
		transaction.Timestamp,
	).Scan(&transaction.ID)
	if err != nil {
		return store.Wrap("insert transaction", err)
	}
	return nil
}
