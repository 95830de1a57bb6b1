package command

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/events"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
	"github.com/eaglebank/ledger/transaction-service/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

func newCommandService(t *testing.T) (*TransactionCommandService, sqlmock.Sqlmock, *goredis.Client) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := NewTransactionCommandService(
		repository.NewTransactionWriteRepository(db),
		repository.NewTransactionReadRepository(db, rdb, time.Minute),
		events.NewRedisPublisher(rdb),
	)
	return svc, mock, rdb
}

func TestCreateTransactionPersistsCachesAndPublishes(t *testing.T) {
	svc, mock, rdb := newCommandService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs(int64(5), 25.0, "withdrawal", "atm", 75.0, "completed", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	tx, err := svc.CreateTransaction(ctx, cqrs.CreateTransactionCommand{
		AccountID: 5, Amount: 25, Type: "withdrawal", Description: "atm", BalanceAfter: 75,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != 11 || tx.Status != models.StatusCompleted {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	if exists, _ := rdb.Exists(ctx, "transaction:view:11").Result(); exists != 1 {
		t.Error("expected transaction view to be cached")
	}

	msgs, err := rdb.XRange(ctx, events.TransactionEventsStream, "-", "+").Result()
	if err != nil || len(msgs) != 1 {
		t.Fatalf("expected one event, got %d (%v)", len(msgs), err)
	}
	var event events.Event
	if err := json.Unmarshal([]byte(msgs[0].Values["event"].(string)), &event); err != nil {
		t.Fatal(err)
	}
	data, _ := event.Data.(map[string]any)
	if event.Type != events.TransactionCreated || data["transaction_id"] != 11.0 || data["balance_after"] != 75.0 {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestCreateTransactionValidationFailsBeforeStore(t *testing.T) {
	tests := []struct {
		name string
		cmd  cqrs.CreateTransactionCommand
		want error
	}{
		{name: "unknown type", cmd: cqrs.CreateTransactionCommand{AccountID: 1, Amount: 1, Type: "refund"}, want: models.ErrInvalidType},
		{name: "NaN amount", cmd: cqrs.CreateTransactionCommand{AccountID: 1, Amount: math.NaN(), Type: "deposit"}, want: models.ErrInvalidAmount},
		{name: "infinite amount", cmd: cqrs.CreateTransactionCommand{AccountID: 1, Amount: math.Inf(1), Type: "deposit"}, want: models.ErrInvalidAmount},
		{name: "account id beyond int32", cmd: cqrs.CreateTransactionCommand{AccountID: math.MaxInt32 + 1, Amount: 1, Type: "deposit"}, want: models.ErrInvalidAccountID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, _ := newCommandService(t)
			_, err := svc.CreateTransaction(context.Background(), tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestCreateTransactionStorageFailureRollsBack(t *testing.T) {
	svc, mock, rdb := newCommandService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := svc.CreateTransaction(context.Background(), cqrs.CreateTransactionCommand{
		AccountID: 1, Amount: 1, Type: "deposit", BalanceAfter: 1,
	})
	var storageErr *store.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if n, _ := rdb.XLen(context.Background(), events.TransactionEventsStream).Result(); n != 0 {
		t.Errorf("expected no event after rollback, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
