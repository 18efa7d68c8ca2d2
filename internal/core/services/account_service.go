package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/bankstmt/bank_statement_app/internal/utils/accountnumber"
	"github.com/google/uuid"
)

// defaultAllocationAttempts bounds the retry loop for account number collisions.
const defaultAllocationAttempts = 5

// accountService implements the AccountSvc facade.
type accountService struct {
	BaseService
	accountRepo        portsrepo.AccountRepository
	userRepo           portsrepo.UserReader
	numberGen          *accountnumber.Generator
	allocationAttempts int
}

// AccountServiceOption is a functional option for configuring the account service.
type AccountServiceOption func(*accountService)

// WithNumberGenerator overrides the account number generator.
func WithNumberGenerator(gen *accountnumber.Generator) AccountServiceOption {
	return func(s *accountService) {
		s.numberGen = gen
	}
}

// WithAllocationAttempts overrides the bounded retry count for number allocation.
func WithAllocationAttempts(n int) AccountServiceOption {
	return func(s *accountService) {
		if n > 0 {
			s.allocationAttempts = n
		}
	}
}

// NewAccountService creates the account lifecycle service.
func NewAccountService(accountRepo portsrepo.AccountRepository, userRepo portsrepo.UserReader, options ...AccountServiceOption) portssvc.AccountSvc {
	svc := &accountService{
		accountRepo:        accountRepo,
		userRepo:           userRepo,
		numberGen:          accountnumber.New(),
		allocationAttempts: defaultAllocationAttempts,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvc = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must be non-negative", apperrors.ErrValidation)
	}
	if err := validateAmountScale("initial balance", req.InitialBalance); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, req.UserID)
		}
		s.LogError(ctx, err, "Failed to look up user for account creation",
			slog.String("user_id", req.UserID))
		return nil, err
	}

	now := time.Now().UTC()
	userID := user.UserID

	// The generator only produces candidates. A cheap existence pre-check
	// filters numbers already allocated; the storage constraint stays the
	// real guarantee, so the insert can still collide with a concurrent
	// writer and the loser retries with a fresh number, bounded.
	for attempt := 1; attempt <= s.allocationAttempts; attempt++ {
		accountNumber := s.numberGen.Generate()

		exists, err := s.accountRepo.ExistsAccountNumber(ctx, accountNumber)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account number availability",
				slog.String("account_number", accountNumber))
			return nil, err
		}
		if exists {
			s.LogWarn(ctx, "Account number already allocated, retrying with a fresh candidate",
				slog.String("account_number", accountNumber),
				slog.Int("attempt", attempt))
			continue
		}

		account := domain.Account{
			AccountID:     uuid.NewString(),
			AccountNumber: accountNumber,
			UserID:        &userID,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			Balance:       req.InitialBalance,
			Status:        domain.AccountActive,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}

		var initialDeposit *domain.Transaction
		if req.InitialBalance.IsPositive() {
			initialDeposit = &domain.Transaction{
				TransactionID:  uuid.NewString(),
				AccountNumber:  account.AccountNumber,
				OccurredAt:     now,
				Description:    domain.InitialDepositDescription,
				Amount:         req.InitialBalance,
				Type:           domain.Deposit,
				RunningBalance: req.InitialBalance,
				CreatedAt:      now,
			}
		}

		err = s.accountRepo.SaveAccountWithInitialDeposit(ctx, account, initialDeposit)
		if err == nil {
			s.LogInfo(ctx, "Account created",
				slog.String("account_number", account.AccountNumber),
				slog.String("user_id", userID),
				slog.Int("attempt", attempt))
			return &account, nil
		}
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Account number collision, retrying with a fresh candidate",
				slog.String("account_number", account.AccountNumber),
				slog.Int("attempt", attempt))
			continue
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_number", account.AccountNumber))
		return nil, err
	}

	return nil, fmt.Errorf("%w: could not allocate a unique account number after %d attempts",
		apperrors.ErrConflict, s.allocationAttempts)
}

func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account",
				slog.String("account_number", accountNumber))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for user", slog.String("user_id", userID))
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountNumber string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.FirstName != nil && *req.FirstName != account.FirstName {
		account.FirstName = *req.FirstName
		updated = true
	}
	if req.LastName != nil && *req.LastName != account.LastName {
		account.LastName = *req.LastName
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No changes detected for account",
			slog.String("account_number", accountNumber))
		return nil, apperrors.ErrNoChanges
	}

	account.LastUpdatedAt = time.Now().UTC()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_number", accountNumber))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_number", accountNumber))
	return account, nil
}

// CloseAccount transitions an account to CLOSED. The repository decides
// eligibility under its row lock; checking a fetched snapshot here would race
// concurrent deposits and closes.
func (s *accountService) CloseAccount(ctx context.Context, accountNumber string) error {
	if err := s.accountRepo.CloseAccount(ctx, accountNumber, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidOperation) {
			s.LogError(ctx, err, "Failed to close account",
				slog.String("account_number", accountNumber))
		}
		return err
	}

	s.LogInfo(ctx, "Account closed", slog.String("account_number", accountNumber))
	return nil
}
