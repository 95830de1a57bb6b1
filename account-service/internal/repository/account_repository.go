package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
)

const accountColumns = "id, user_id, account_number, account_type, balance, created_at, updated_at, is_active"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.UserID, &a.AccountNumber, &a.AccountType,
		&a.Balance, &a.CreatedAt, &a.UpdatedAt, &a.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
// A repository returned by InTx runs every statement inside that transaction.
type AccountWriteRepository struct {
	db *sql.DB
	q  store.DBTX
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db, q: db}
}

// InTx runs fn against a copy of the repository bound to a fresh transaction,
// committing only if fn succeeds.
func (r *AccountWriteRepository) InTx(ctx context.Context, fn func(repo *AccountWriteRepository) error) error {
	return store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&AccountWriteRepository{db: r.db, q: tx})
	})
}

// Insert persists a new account and assigns its id.
func (r *AccountWriteRepository) Insert(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, account_number, account_type, balance, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.q.QueryRowContext(ctx, query,
		account.UserID, account.AccountNumber, account.AccountType, account.Balance,
		account.CreatedAt, account.UpdatedAt, account.IsActive,
	).Scan(&account.ID)
	if err != nil {
		return store.Wrap("insert account", err)
	}
	return nil
}

// GetForUpdate loads an account and locks its row until the surrounding
// transaction ends. Outside InTx the lock is released immediately.
func (r *AccountWriteRepository) GetForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, store.Wrap("get account", err)
	}
	return account, nil
}

func (r *AccountWriteRepository) UpdateBalance(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`
	result, err := r.q.ExecContext(ctx, query, account.ID, account.Balance, account.UpdatedAt)
	if err != nil {
		return store.Wrap("update balance", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return store.Wrap("check rows affected", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %d: %w", account.ID, store.ErrNotFound)
	}
	return nil
}

// Delete removes the row outright; transactions referencing the id are
// untouched. It returns the deleted account's number.
func (r *AccountWriteRepository) Delete(ctx context.Context, id int64) (string, error) {
	var accountNumber string
	err := r.q.QueryRowContext(ctx, `DELETE FROM accounts WHERE id = $1 RETURNING account_number`, id).Scan(&accountNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("account %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return "", store.Wrap("delete account", err)
	}
	return accountNumber, nil
}
