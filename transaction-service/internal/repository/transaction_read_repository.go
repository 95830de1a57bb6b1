package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/models"
	sharedredis "github.com/eaglebank/ledger/shared/redis"
	"github.com/eaglebank/ledger/shared/store"
	goredis "github.com/redis/go-redis/v9"
)

const transactionViewKeyPrefix = "transaction:view:"

var transactionSortColumns = map[string]string{
	"id":            "id",
	"account_id":    "account_id",
	"amount":        "amount",
	"type":          "type",
	"description":   "description",
	"balance_after": "balance_after",
	"status":        "status",
	"timestamp":     "timestamp",
}

// TransactionReadRepository handles all read operations for transactions.
// It uses Redis as the primary read store for single records, falling back to
// PostgreSQL on a miss. Transactions never change once written, so a cached
// view is never stale.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.Transaction]
}

func NewTransactionReadRepository(db *sql.DB, redisClient goredis.Cmdable, ttl time.Duration) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.Transaction](redisClient, transactionViewKeyPrefix, ttl),
	}
}

// GetByID returns a transaction by attempting Redis first, then PostgreSQL.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	if transaction, ok := r.cache.Get(ctx, id); ok {
		return transaction, nil
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, store.Wrap("get transaction", err)
	}

	// Warm the cache
	r.CacheTransaction(ctx, transaction)
	return transaction, nil
}

// List returns the filtered, sorted and optionally paginated transactions and
// the total number matching the filter.
func (r *TransactionReadRepository) List(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.Transaction, int, error) {
	var where store.Where
	if q.AccountID != nil {
		where.Add("account_id", *q.AccountID)
	}
	if q.Type != "" {
		where.Add("type", q.Type)
	}
	if q.Status != "" {
		where.Add("status", q.Status)
	}

	limit, limitArgs := store.LimitClause(q.ListParams, len(where.Args()))
	selectQuery := `SELECT ` + transactionColumns + ` FROM transactions` + where.String() +
		store.OrderClause(q.ListParams, transactionSortColumns) + limit

	var (
		transactions = []models.Transaction{}
		total        int
	)
	err := store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where.String(), where.Args()...).Scan(&total); err != nil {
			return store.Wrap("count transactions", err)
		}

		rows, err := tx.QueryContext(ctx, selectQuery, append(where.Args(), limitArgs...)...)
		if err != nil {
			return store.Wrap("list transactions", err)
		}
		defer rows.Close()

		for rows.Next() {
			transaction, err := scanTransaction(rows)
			if err != nil {
				return store.Wrap("scan transaction", err)
			}
			transactions = append(transactions, *transaction)
		}
		return store.Wrap("iterate transactions", rows.Err())
	})
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// CacheTransaction stores the read model for a transaction in Redis.
// Called by the command service immediately after a successful Insert.
func (r *TransactionReadRepository) CacheTransaction(ctx context.Context, transaction *models.Transaction) {
	r.cache.Set(ctx, transaction.ID, transaction)
}
