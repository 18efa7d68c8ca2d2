package cache

import (
	"context"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
)

// InvalidatingTransactionRepository decorates a TransactionRepository so that
// every ledger write drops the cached account entry: recording a transaction
// moves the account balance, which lives on the account row.
// Reads pass straight through.
type InvalidatingTransactionRepository struct {
	inner    portsrepo.TransactionRepository
	accounts *CachedAccountRepository
}

var _ portsrepo.TransactionRepository = (*InvalidatingTransactionRepository)(nil)

// NewInvalidatingTransactionRepository wraps inner so its writes invalidate
// entries held by accounts.
func NewInvalidatingTransactionRepository(inner portsrepo.TransactionRepository, accounts *CachedAccountRepository) *InvalidatingTransactionRepository {
	return &InvalidatingTransactionRepository{inner: inner, accounts: accounts}
}

func (r *InvalidatingTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	saved, err := r.inner.SaveTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}
	r.accounts.cacheInvalidate(ctx, saved.AccountNumber)
	return saved, nil
}

func (r *InvalidatingTransactionRepository) FindTransactionsByAccount(ctx context.Context, accountNumber string, filter portsrepo.TransactionFilter, page, size int) ([]domain.Transaction, int64, error) {
	return r.inner.FindTransactionsByAccount(ctx, accountNumber, filter, page, size)
}

func (r *InvalidatingTransactionRepository) FindTransactionByIDAndAccount(ctx context.Context, transactionID, accountNumber string) (*domain.Transaction, error) {
	return r.inner.FindTransactionByIDAndAccount(ctx, transactionID, accountNumber)
}
