package query

import (
	"context"

	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
	"github.com/eaglebank/ledger/transaction-service/internal/repository"
)

type TransactionQueryService struct {
	readRepo *repository.TransactionReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.Transaction, error) {
	return s.readRepo.GetByID(ctx, q.TransactionID)
}

func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) (*cqrs.TransactionList, error) {
	transactions, total, err := s.readRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	list := &cqrs.TransactionList{Transactions: transactions, Total: total}
	if q.Paginated() {
		pagination := store.NewPagination(total, *q.Page, *q.PerPage)
		list.Pagination = &pagination
	}
	return list, nil
}
