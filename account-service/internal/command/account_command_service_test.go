package command

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/eaglebank/ledger/account-service/internal/repository"
	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/events"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
	goredis "github.com/redis/go-redis/v9"
)

var accountRowColumns = []string{"id", "user_id", "account_number", "account_type", "balance", "created_at", "updated_at", "is_active"}

type fixture struct {
	svc   *AccountCommandService
	mock  sqlmock.Sqlmock
	redis *goredis.Client
	mr    *miniredis.Miniredis
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := NewAccountCommandService(
		repository.NewAccountWriteRepository(db),
		repository.NewAccountReadRepository(db, rdb, time.Minute),
		events.NewRedisPublisher(rdb),
	)
	return fixture{svc: svc, mock: mock, redis: rdb, mr: mr}
}

func (f fixture) lastEvent(t *testing.T) events.Event {
	t.Helper()
	msgs, err := f.redis.XRevRangeN(context.Background(), events.AccountEventsStream, "+", "-", 1).Result()
	if err != nil || len(msgs) == 0 {
		t.Fatalf("expected an event on %s: %v", events.AccountEventsStream, err)
	}
	var event events.Event
	if err := json.Unmarshal([]byte(msgs[0].Values["event"].(string)), &event); err != nil {
		t.Fatal(err)
	}
	return event
}

func (f fixture) expectLockedAccount(id int64, balance float64) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(id, 1, "ACC1", "savings", balance, ts, ts, true))
}

func TestCreateAccountPublishesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	balance := 1000.0

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	f.mock.ExpectCommit()

	account, err := f.svc.CreateAccount(ctx, cqrs.CreateAccountCommand{
		UserID: 1, AccountNumber: "ACC1", AccountType: "savings", InitialBalance: &balance,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != 1 || account.Balance != 1000 {
		t.Errorf("unexpected account %+v", account)
	}
	if event := f.lastEvent(t); event.Type != events.AccountCreated {
		t.Errorf("expected %s, got %s", events.AccountCreated, event.Type)
	}
	if exists, _ := f.redis.Exists(ctx, "account:view:1").Result(); exists != 0 {
		t.Error("expected the view to be left for the first read to fill")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateAccountInvalidNeverTouchesStore(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateAccount(context.Background(), cqrs.CreateAccountCommand{
		UserID: 1, AccountNumber: "ACC1", AccountType: "business",
	})
	if !errors.Is(err, models.ErrInvalidAccountType) {
		t.Fatalf("expected InvalidAccountType, got %v", err)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDepositCommitsAndPublishes(t *testing.T) {
	f := newFixture(t)
	f.redis.Set(context.Background(), "account:view:1", `{"id":1,"balance":1000}`, 0)

	f.mock.ExpectBegin()
	f.expectLockedAccount(1, 1000)
	f.mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance")).
		WithArgs(int64(1), 1500.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	account, err := f.svc.Deposit(context.Background(), cqrs.DepositCommand{AccountID: 1, Amount: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 1500 {
		t.Errorf("expected 1500, got %v", account.Balance)
	}
	if exists, _ := f.redis.Exists(context.Background(), "account:view:1").Result(); exists != 0 {
		t.Error("expected the old cached balance to be dropped")
	}

	event := f.lastEvent(t)
	data, _ := event.Data.(map[string]any)
	if event.Type != events.BalanceUpdated || data["operation"] != "deposit" || data["old_balance"] != 1000.0 || data["change"] != 500.0 {
		t.Errorf("unexpected event %+v", event)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestWithdrawInsufficientFundsRollsBack(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.expectLockedAccount(1, 1500)
	f.mock.ExpectRollback()

	_, err := f.svc.Withdraw(context.Background(), cqrs.WithdrawCommand{AccountID: 1, Amount: 2000})
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("expected InsufficientFunds, got %v", err)
	}
	if n, _ := f.redis.XLen(context.Background(), events.AccountEventsStream).Result(); n != 0 {
		t.Errorf("expected no event for a failed withdrawal, got %d", n)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestOverwriteBalanceSkipsCap(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.expectLockedAccount(1, 10)
	f.mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance")).
		WithArgs(int64(1), 2e9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	account, err := f.svc.OverwriteBalance(context.Background(), cqrs.OverwriteBalanceCommand{AccountID: 1, Balance: 2e9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Balance != 2e9 {
		t.Errorf("expected 2e9, got %v", account.Balance)
	}
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.redis.Set(ctx, "account:view:1", `{"id":1}`, 0)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM accounts")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"account_number"}).AddRow("ACC1"))
	f.mock.ExpectCommit()

	if err := f.svc.DeleteAccount(ctx, cqrs.DeleteAccountCommand{AccountID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists, _ := f.redis.Exists(ctx, "account:view:1").Result(); exists != 0 {
		t.Error("expected cached view to be invalidated")
	}
	if event := f.lastEvent(t); event.Type != events.AccountDeleted {
		t.Errorf("expected %s, got %s", events.AccountDeleted, event.Type)
	}

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM accounts")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"account_number"}))
	f.mock.ExpectRollback()

	if err := f.svc.DeleteAccount(ctx, cqrs.DeleteAccountCommand{AccountID: 2}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAccountRollsBackWhenViewCannotBeDropped(t *testing.T) {
	f := newFixture(t)
	f.mr.Close()

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM accounts")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"account_number"}).AddRow("ACC1"))
	f.mock.ExpectRollback()

	err := f.svc.DeleteAccount(context.Background(), cqrs.DeleteAccountCommand{AccountID: 1})
	var storageErr *store.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDepositRollsBackWhenViewCannotBeDropped(t *testing.T) {
	f := newFixture(t)
	f.mr.Close()

	f.mock.ExpectBegin()
	f.expectLockedAccount(1, 1000)
	f.mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance")).
		WithArgs(int64(1), 1500.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectRollback()

	if _, err := f.svc.Deposit(context.Background(), cqrs.DepositCommand{AccountID: 1, Amount: 500}); err == nil {
		t.Fatal("expected the deposit to fail")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
