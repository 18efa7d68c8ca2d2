package repositories

import (
	"context"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
)

// TransactionFilter narrows a transaction listing. All supplied criteria must hold
// simultaneously. From/To are full timestamp bounds, From inclusive, To exclusive;
// the service expands day-granularity query dates into these bounds.
type TransactionFilter struct {
	From *time.Time
	To   *time.Time
	Type *domain.TransactionType
}

// TransactionReader defines read operations for ledger entries.
type TransactionReader interface {
	// FindTransactionsByAccount retrieves one page of an account's transactions
	// matching the filter, ordered by occurrence date descending (newest first,
	// transaction id descending as tiebreak), plus the total match count.
	FindTransactionsByAccount(ctx context.Context, accountNumber string, filter TransactionFilter, page, size int) ([]domain.Transaction, int64, error)

	// FindTransactionByIDAndAccount retrieves a transaction only if it belongs to
	// the given account. A transaction id paired with a different account number
	// yields apperrors.ErrNotFound; cross-account ids are never retrievable.
	FindTransactionByIDAndAccount(ctx context.Context, transactionID, accountNumber string) (*domain.Transaction, error)
}

// TransactionWriter defines the single balance-mutating write path of the ledger.
type TransactionWriter interface {
	// SaveTransaction applies txn to its account atomically: the account row is
	// locked, the new balance computed under the lock, the transaction inserted and
	// the balance updated in one storage transaction. Returns the persisted
	// transaction with RunningBalance set to the post-transaction balance.
	// Fails with apperrors.ErrInsufficientFunds when the balance would go negative,
	// leaving no partial state behind.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
}

// TransactionRepository combines all transaction persistence operations.
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}
