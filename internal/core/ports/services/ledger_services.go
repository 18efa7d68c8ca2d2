package services

import (
	"context"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	"github.com/bankstmt/bank_statement_app/internal/dto"
)

// LedgerSvc is the transaction engine facade: the only path that mutates account
// balances after creation, plus the filtered ledger reads.
type LedgerSvc interface {
	// RecordTransaction validates and applies one deposit or withdrawal, returning
	// the persisted transaction with its post-transaction balance.
	RecordTransaction(ctx context.Context, accountNumber string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// ListTransactions returns one page of an account's ledger, newest first,
	// conjunctively filtered by date range and type. Unknown accounts fail with
	// apperrors.ErrNotFound rather than returning an empty page.
	ListTransactions(ctx context.Context, accountNumber string, params dto.ListTransactionsParams) (*dto.Page[domain.Transaction], error)

	// GetTransaction retrieves a transaction scoped to its owning account.
	GetTransaction(ctx context.Context, accountNumber, transactionID string) (*domain.Transaction, error)
}
