package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, account_number, occurred_at, description, amount, type, running_balance, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger entries.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.AccountNumber,
		&txn.OccurredAt,
		&txn.Description,
		&txn.Amount,
		&txn.Type,
		&txn.RunningBalance,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// SaveTransaction applies a ledger entry to its account as one atomic unit.
// The account row is locked with FOR UPDATE so concurrent transactions against the
// same account serialize; the balance check happens under that lock, which is what
// keeps the non-negative-balance invariant safe against racing writers.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var balance decimal.Decimal
	lockQuery := `SELECT balance FROM accounts WHERE account_number = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, txn.AccountNumber).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.AccountNumber)
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", txn.AccountNumber, err)
	}

	newBalance := balance.Add(txn.SignedAmount())
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: account %s balance %s, withdrawal %s",
			apperrors.ErrInsufficientFunds, txn.AccountNumber, balance.String(), txn.Amount.String())
	}
	txn.RunningBalance = newBalance

	insertQuery := `
		INSERT INTO transactions (transaction_id, account_number, occurred_at, description, amount, type, running_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, insertQuery,
		txn.TransactionID,
		txn.AccountNumber,
		txn.OccurredAt,
		txn.Description,
		txn.Amount,
		txn.Type,
		txn.RunningBalance,
		txn.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	updateQuery := `UPDATE accounts SET balance = $2, last_updated_at = $3 WHERE account_number = $1;`
	if _, err := tx.Exec(ctx, updateQuery, txn.AccountNumber, newBalance, txn.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to update balance of account %s: %w", txn.AccountNumber, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindTransactionsByAccount retrieves one page of an account's ledger matching the
// filter, newest first, along with the total match count.
func (r *PgxTransactionRepository) FindTransactionsByAccount(ctx context.Context, accountNumber string, filter portsrepo.TransactionFilter, page, size int) ([]domain.Transaction, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}

	conditions := []string{"account_number = $1"}
	args := []any{accountNumber}

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, "occurred_at >= $"+strconv.Itoa(len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, "occurred_at < $"+strconv.Itoa(len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, "type = $"+strconv.Itoa(len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for account %s: %w", accountNumber, err)
	}

	args = append(args, size, page*size)
	pageQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where +
		` ORDER BY occurred_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)-1) +
		` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions for account %s: %w", accountNumber, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction row for account %s: %w", accountNumber, err)
		}
		txns = append(txns, *txn)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows for account %s: %w", accountNumber, rows.Err())
	}

	return txns, total, nil
}

// FindTransactionByIDAndAccount retrieves a transaction only when it belongs to
// the given account. The account scoping lives in the WHERE clause so a foreign
// transaction id behaves exactly like a missing one.
func (r *PgxTransactionRepository) FindTransactionByIDAndAccount(ctx context.Context, transactionID, accountNumber string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND account_number = $2;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s for account %s", apperrors.ErrNotFound, transactionID, accountNumber)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}
