package services

import (
	"context"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	"github.com/bankstmt/bank_statement_app/internal/dto"
)

// AccountSvc is the account lifecycle facade: opening, holder-identity patching,
// closure and account reads.
type AccountSvc interface {
	// CreateAccount opens an account for an existing user, allocating a unique
	// account number with bounded retry. A positive initial balance additionally
	// records the opening DEPOSIT transaction, atomically with the account row.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccountByNumber retrieves a single account.
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccountsForUser retrieves all accounts owned by a user.
	ListAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error)

	// UpdateAccount patches the account holder name. Returns apperrors.ErrNoChanges
	// when every supplied field already matches the stored state.
	UpdateAccount(ctx context.Context, accountNumber string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// CloseAccount transitions an ACTIVE, zero-balance account to CLOSED.
	CloseAccount(ctx context.Context, accountNumber string) error
}
