package repositories

import (
	"context"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByNumber retrieves an account by its generated account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ExistsAccountNumber reports whether an account number is already allocated.
	ExistsAccountNumber(ctx context.Context, accountNumber string) (bool, error)

	// FindAccountsByUserID retrieves all accounts owned by a user.
	FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccountWithInitialDeposit persists a new account and, when initialDeposit
	// is non-nil, its opening DEPOSIT transaction as a single atomic unit: either
	// both rows commit or neither does. Returns apperrors.ErrDuplicate when the
	// account number is already taken.
	SaveAccountWithInitialDeposit(ctx context.Context, account domain.Account, initialDeposit *domain.Transaction) error

	// UpdateAccount updates the patchable fields of an existing account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// CloseAccount transitions the account to CLOSED. Eligibility is decided
	// under the same row lock as the write: the account must exist, be ACTIVE
	// and carry a zero balance. Returns apperrors.ErrNotFound or
	// apperrors.ErrInvalidOperation when the transition is not allowed.
	CloseAccount(ctx context.Context, accountNumber string, now time.Time) error
}

// AccountRepository combines all account persistence operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
