package command

import (
	"context"
	"log"

	"github.com/eaglebank/ledger/account-service/internal/repository"
	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/events"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
)

// AccountCommandService writes account state and keeps the read model in sync.
type AccountCommandService struct {
	writeRepo *repository.AccountWriteRepository
	readRepo  *repository.AccountReadRepository
	publisher events.Publisher
}

func NewAccountCommandService(
	writeRepo *repository.AccountWriteRepository,
	readRepo *repository.AccountReadRepository,
	publisher events.Publisher,
) *AccountCommandService {
	return &AccountCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	account, err := models.NewAccount(cmd.UserID, cmd.AccountNumber, cmd.AccountType, cmd.InitialBalance)
	if err != nil {
		return nil, err
	}
	err = s.writeRepo.InTx(ctx, func(repo *repository.AccountWriteRepository) error {
		return repo.Insert(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		AccountID:     account.ID,
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		AccountType:   account.AccountType,
		Balance:       account.Balance,
	})
	return account, nil
}

func (s *AccountCommandService) Deposit(ctx context.Context, cmd cqrs.DepositCommand) (*models.Account, error) {
	return s.mutateBalance(ctx, cmd.AccountID, "deposit", func(a *models.Account) error {
		return a.Deposit(cmd.Amount)
	})
}

func (s *AccountCommandService) Withdraw(ctx context.Context, cmd cqrs.WithdrawCommand) (*models.Account, error) {
	return s.mutateBalance(ctx, cmd.AccountID, "withdraw", func(a *models.Account) error {
		return a.Withdraw(cmd.Amount)
	})
}

// OverwriteBalance sets the balance directly, skipping the deposit/withdraw
// rules.
//
// Deprecated: kept for clients of PUT /accounts/{id}/balance.
func (s *AccountCommandService) OverwriteBalance(ctx context.Context, cmd cqrs.OverwriteBalanceCommand) (*models.Account, error) {
	log.Printf("WARNING: direct balance overwrite requested for account %d", cmd.AccountID)
	return s.mutateBalance(ctx, cmd.AccountID, "overwrite", func(a *models.Account) error {
		return a.OverwriteBalance(cmd.Balance)
	})
}

// mutateBalance locks the row, applies fn and persists the result in a single
// transaction. A validation error from fn rolls back without writing. The
// cached view is dropped before commit and again after it.
func (s *AccountCommandService) mutateBalance(ctx context.Context, id int64, operation string, fn func(*models.Account) error) (*models.Account, error) {
	var (
		account    *models.Account
		oldBalance float64
	)
	err := s.writeRepo.InTx(ctx, func(repo *repository.AccountWriteRepository) error {
		var err error
		account, err = repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		oldBalance = account.Balance
		if err := fn(account); err != nil {
			return err
		}
		if err := repo.UpdateBalance(ctx, account); err != nil {
			return err
		}
		return s.invalidate(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateAfterCommit(ctx, id)
	s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  account.ID,
		Operation:  operation,
		OldBalance: oldBalance,
		NewBalance: account.Balance,
		Change:     account.Balance - oldBalance,
	})
	log.Printf("Balance %s for account %d: %.2f -> %.2f", operation, account.ID, oldBalance, account.Balance)
	return account, nil
}

func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) error {
	var accountNumber string
	err := s.writeRepo.InTx(ctx, func(repo *repository.AccountWriteRepository) error {
		var err error
		accountNumber, err = repo.Delete(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		return s.invalidate(ctx, cmd.AccountID)
	})
	if err != nil {
		return err
	}

	s.invalidateAfterCommit(ctx, cmd.AccountID)
	s.publish(ctx, events.AccountDeleted, events.AccountDeletedEvent{
		AccountID:     cmd.AccountID,
		AccountNumber: accountNumber,
	})
	return nil
}

// invalidate runs inside the write transaction: if the cached view cannot be
// dropped the change is rolled back.
func (s *AccountCommandService) invalidate(ctx context.Context, id int64) error {
	if err := s.readRepo.InvalidateAccount(ctx, id); err != nil {
		return store.Wrap("invalidate account view", err)
	}
	return nil
}

// invalidateAfterCommit drops a view that a concurrent read may have filled
// from the old row while the transaction was open.
func (s *AccountCommandService) invalidateAfterCommit(ctx context.Context, id int64) {
	if err := s.readRepo.InvalidateAccount(ctx, id); err != nil {
		log.Printf("Failed to invalidate account %d view after commit: %v", id, err)
	}
}

func (s *AccountCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
