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

const accountViewKeyPrefix = "account:view:"

// accountSortColumns whitelists the ?sort= keys accepted by List.
var accountSortColumns = map[string]string{
	"id":             "id",
	"user_id":        "user_id",
	"account_number": "account_number",
	"account_type":   "account_type",
	"balance":        "balance",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

// AccountReadRepository handles all read operations for accounts.
// Single-account reads try the Redis view cache first and fall back to
// PostgreSQL, warming the cache on every cold read. Only reads fill the cache. Lists always come from
// PostgreSQL.
type AccountReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.Account]
}

func NewAccountReadRepository(db *sql.DB, redisClient goredis.Cmdable, ttl time.Duration) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.Account](redisClient, accountViewKeyPrefix, ttl),
	}
}

func (r *AccountReadRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if account, ok := r.cache.Get(ctx, id); ok {
		return account, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, store.Wrap("get account", err)
	}

	r.CacheAccount(ctx, account)
	return account, nil
}

// List returns the filtered, sorted and optionally paginated accounts plus
// the total number of rows matching the filter. Count and page are read in
// one transaction so they agree.
func (r *AccountReadRepository) List(ctx context.Context, q cqrs.ListAccountsQuery) ([]models.Account, int, error) {
	var where store.Where
	if q.UserID != nil {
		where.Add("user_id", *q.UserID)
	}
	if q.AccountType != "" {
		where.Add("account_type", q.AccountType)
	}
	if q.IsActive != nil {
		where.Add("is_active", *q.IsActive)
	}

	limit, limitArgs := store.LimitClause(q.ListParams, len(where.Args()))
	selectQuery := `SELECT ` + accountColumns + ` FROM accounts` + where.String() +
		store.OrderClause(q.ListParams, accountSortColumns) + limit

	var (
		accounts = []models.Account{}
		total    int
	)
	err := store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`+where.String(), where.Args()...).Scan(&total); err != nil {
			return store.Wrap("count accounts", err)
		}

		rows, err := tx.QueryContext(ctx, selectQuery, append(where.Args(), limitArgs...)...)
		if err != nil {
			return store.Wrap("list accounts", err)
		}
		defer rows.Close()

		for rows.Next() {
			account, err := scanAccount(rows)
			if err != nil {
				return store.Wrap("scan account", err)
			}
			accounts = append(accounts, *account)
		}
		return store.Wrap("iterate accounts", rows.Err())
	})
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// CacheAccount stores the Redis view of an account read from PostgreSQL.
func (r *AccountReadRepository) CacheAccount(ctx context.Context, account *models.Account) {
	r.cache.Set(ctx, account.ID, account)
}

// InvalidateAccount drops the Redis view of an account so the next read goes
// to PostgreSQL. Writers call it instead of writing the new value.
func (r *AccountReadRepository) InvalidateAccount(ctx context.Context, id int64) error {
	return r.cache.Delete(ctx, id)
}
