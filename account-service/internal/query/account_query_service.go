package query

import (
	"context"

	"github.com/eaglebank/ledger/account-service/internal/repository"
	"github.com/eaglebank/ledger/shared/cqrs"
	"github.com/eaglebank/ledger/shared/models"
	"github.com/eaglebank/ledger/shared/store"
)

type AccountQueryService struct {
	readRepo *repository.AccountReadRepository
}

func NewAccountQueryService(readRepo *repository.AccountReadRepository) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	return s.readRepo.GetByID(ctx, q.AccountID)
}

// ListAccounts returns the filtered set; pagination metadata is attached only
// when both page and per_page were supplied.
func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) (*cqrs.AccountList, error) {
	accounts, total, err := s.readRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	list := &cqrs.AccountList{Accounts: accounts, Total: total}
	if q.Paginated() {
		pagination := store.NewPagination(total, *q.Page, *q.PerPage)
		list.Pagination = &pagination
	}
	return list, nil
}
