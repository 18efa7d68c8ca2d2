package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/google/uuid"
)

const queryDateLayout = "2006-01-02"

// ledgerService implements the LedgerSvc facade. It is the only code path that
// changes an account balance after creation, which keeps the "balance equals the
// signed sum of the ledger" invariant checkable in one place.
type ledgerService struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionRepository
}

// NewLedgerService creates the transaction engine service.
func NewLedgerService(accountRepo portsrepo.AccountReader, transactionRepo portsrepo.TransactionRepository) portssvc.LedgerSvc {
	return &ledgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

func (s *ledgerService) RecordTransaction(ctx context.Context, accountNumber string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber); err != nil {
		return nil, err
	}

	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedTransactionType, req.Type)
	}
	if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if err := validateAmountScale("amount", *req.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description must not be blank", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountNumber: accountNumber,
		OccurredAt:    occurredAt,
		Description:   req.Description,
		Amount:        *req.Amount,
		Type:          req.Type,
		CreatedAt:     now,
	}

	// The repository applies the transaction under a per-account row lock:
	// balance check, ledger insert and balance update commit or roll back as one.
	saved, err := s.transactionRepo.SaveTransaction(ctx, txn)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			s.LogWarn(ctx, "Withdrawal rejected, insufficient funds",
				slog.String("account_number", accountNumber),
				slog.String("amount", req.Amount.String()))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to record transaction",
			slog.String("account_number", accountNumber),
			slog.String("type", string(req.Type)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", saved.TransactionID),
		slog.String("account_number", accountNumber),
		slog.String("type", string(saved.Type)),
		slog.String("balance", saved.RunningBalance.String()))
	return saved, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, accountNumber string, params dto.ListTransactionsParams) (*dto.Page[domain.Transaction], error) {
	// Unknown accounts fail with NotFound rather than returning an empty page.
	if _, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber); err != nil {
		return nil, err
	}

	filter, err := buildTransactionFilter(params)
	if err != nil {
		return nil, err
	}

	txns, total, err := s.transactionRepo.FindTransactionsByAccount(ctx, accountNumber, filter, params.Page, params.Size)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions",
			slog.String("account_number", accountNumber))
		return nil, err
	}

	return dto.NewPage(txns, params.Page, params.Size, total), nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, accountNumber, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByIDAndAccount(ctx, transactionID, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction",
				slog.String("transaction_id", transactionID),
				slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return txn, nil
}

// buildTransactionFilter expands the day-granularity query dates into inclusive
// full-day timestamp bounds: [startDate 00:00:00, endDate next midnight).
func buildTransactionFilter(params dto.ListTransactionsParams) (portsrepo.TransactionFilter, error) {
	var filter portsrepo.TransactionFilter

	if params.StartDate != nil {
		start, err := time.ParseInLocation(queryDateLayout, *params.StartDate, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid startDate %q", apperrors.ErrValidation, *params.StartDate)
		}
		filter.From = &start
	}
	if params.EndDate != nil {
		end, err := time.ParseInLocation(queryDateLayout, *params.EndDate, time.UTC)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid endDate %q", apperrors.ErrValidation, *params.EndDate)
		}
		endExclusive := end.AddDate(0, 0, 1)
		filter.To = &endExclusive
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, fmt.Errorf("%w: startDate must not be after endDate", apperrors.ErrValidation)
	}
	if params.Type != nil {
		txnType := domain.TransactionType(*params.Type)
		if !txnType.IsValid() {
			return filter, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedTransactionType, *params.Type)
		}
		filter.Type = &txnType
	}

	return filter, nil
}
