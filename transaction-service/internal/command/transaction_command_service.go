package command

import (
	"context"
	"log"

	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/events"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/transaction-service/internal/repository"
)

// TransactionCommandService records transactions. The referenced account is
// not looked up: account_id is an opaque id and balance_after is stored as
// supplied.
type TransactionCommandService struct {
	writeRepo *repository.TransactionWriteRepository
	readRepo  *repository.TransactionReadRepository
	publisher events.Publisher
}

func NewTransactionCommandService(
	writeRepo *repository.TransactionWriteRepository,
	readRepo *repository.TransactionReadRepository,
	publisher events.Publisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

func (s *TransactionCommandService) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	transaction, err := models.NewTransaction(cmd.AccountID, cmd.Amount, cmd.Type, cmd.BalanceAfter, cmd.Description, cmd.Status)
	if err != nil {
		return nil, err
	}
	err = s.writeRepo.InTx(ctx, func(repo *repository.TransactionWriteRepository) error {
		return repo.Insert(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	s.readRepo.CacheTransaction(ctx, transaction)
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Amount:        transaction.Amount,
		Type:          transaction.Type,
		Status:        transaction.Status,
		BalanceAfter:  transaction.BalanceAfter,
	}); err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}
	return transaction, nil
}
