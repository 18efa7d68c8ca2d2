package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger entry. Amount itself is
// always positive; the type determines the sign applied to the balance.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// IsValid reports whether t is one of the two supported transaction types.
func (t TransactionType) IsValid() bool {
	return t == Deposit || t == Withdrawal
}

// InitialDepositDescription is the description of the synthetic first transaction
// recorded when an account is opened with a nonzero balance. It keeps the
// "balance = sum(transactions)" invariant intact from account inception.
const InitialDepositDescription = "Initial deposit"

// Transaction is an immutable, append-only ledger entry. Once persisted, amount,
// type and owning account never change; transactions are never deleted on their own.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary key (UUID)
	AccountNumber string          `json:"accountNumber"` // FK -> accounts.account_number (not null, fixed at creation)
	OccurredAt    time.Time       `json:"occurredAt"`    // Defaults to creation instant when not supplied
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"` // Unsigned; direction comes from Type
	Type          TransactionType `json:"type"`
	// RunningBalance is the account balance immediately after this transaction was
	// applied, captured under the same row lock that updated the account.
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SignedAmount returns the effect of the transaction on the account balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
