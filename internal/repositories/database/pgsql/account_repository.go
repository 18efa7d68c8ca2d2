package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, account_number, user_id, first_name, last_name, balance, status, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// scanAccount scans one account row; works for both pool and tx row types.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	var userID sql.NullString
	err := row.Scan(
		&acc.AccountID,
		&acc.AccountNumber,
		&userID,
		&acc.FirstName,
		&acc.LastName,
		&acc.Balance,
		&acc.Status,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		acc.UserID = &userID.String
	}
	return &acc, nil
}

// SaveAccountWithInitialDeposit inserts a new account and, when present, its
// opening deposit transaction inside one database transaction. Either both rows
// commit or neither does; a diverging balance and ledger must not be observable.
func (r *PgxAccountRepository) SaveAccountWithInitialDeposit(ctx context.Context, account domain.Account, initialDeposit *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var userID sql.NullString
	if account.UserID != nil {
		userID = sql.NullString{String: *account.UserID, Valid: true}
	}

	accountQuery := `
		INSERT INTO accounts (account_id, account_number, user_id, first_name, last_name, balance, status, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, accountQuery,
		account.AccountID,
		account.AccountNumber,
		userID,
		account.FirstName,
		account.LastName,
		account.Balance,
		account.Status,
		account.CreatedAt,
		account.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountNumber, err)
	}

	if initialDeposit != nil {
		txnQuery := `
			INSERT INTO transactions (transaction_id, account_number, occurred_at, description, amount, type, running_balance, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		_, err = tx.Exec(ctx, txnQuery,
			initialDeposit.TransactionID,
			initialDeposit.AccountNumber,
			initialDeposit.OccurredAt,
			initialDeposit.Description,
			initialDeposit.Amount,
			initialDeposit.Type,
			initialDeposit.RunningBalance,
			initialDeposit.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save initial deposit for account %s: %w", account.AccountNumber, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindAccountByNumber retrieves an account by its account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountNumber, err)
	}
	return acc, nil
}

// ExistsAccountNumber reports whether an account number is already allocated.
func (r *PgxAccountRepository) ExistsAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1);`, accountNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number %s: %w", accountNumber, err)
	}
	return exists, nil
}

// FindAccountsByUserID retrieves all accounts owned by a user, oldest first.
func (r *PgxAccountRepository) FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at, account_number;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for user %s: %w", userID, err)
		}
		accounts = append(accounts, *acc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for user %s: %w", userID, rows.Err())
	}
	return accounts, nil
}

// UpdateAccount updates the patchable holder fields of an existing account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET first_name = $2, last_name = $3, last_updated_at = $4
		WHERE account_number = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.AccountNumber,
		account.FirstName,
		account.LastName,
		account.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountNumber, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountNumber)
	}
	return nil
}

// CloseAccount transitions an account to CLOSED. The row is locked with
// FOR UPDATE and the eligibility check happens under that lock, so a deposit
// or a second close racing this call serializes behind it instead of acting
// on a stale snapshot.
func (r *PgxAccountRepository) CloseAccount(ctx context.Context, accountNumber string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status domain.AccountStatus
	var balance decimal.Decimal
	lockQuery := `SELECT status, balance FROM accounts WHERE account_number = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, accountNumber).Scan(&status, &balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
		}
		return fmt.Errorf("failed to lock account %s: %w", accountNumber, err)
	}

	if status == domain.AccountClosed {
		return fmt.Errorf("%w: account %s is already closed", apperrors.ErrInvalidOperation, accountNumber)
	}
	if !balance.IsZero() {
		return fmt.Errorf("%w: account %s cannot be closed because the balance is not zero",
			apperrors.ErrInvalidOperation, accountNumber)
	}

	updateQuery := `UPDATE accounts SET status = $2, last_updated_at = $3 WHERE account_number = $1;`
	if _, err := tx.Exec(ctx, updateQuery, accountNumber, domain.AccountClosed, now); err != nil {
		return fmt.Errorf("failed to close account %s: %w", accountNumber, err)
	}

	return r.Commit(ctx, tx)
}
