package domain

import (
	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of an account. The only legal transition is
// ACTIVE -> CLOSED; closure is terminal and accounts are never hard-deleted.
type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountClosed AccountStatus = "CLOSED"
)

// Account is a balance-bearing ledger root. Balance is a derived value: at all
// times it equals the signed sum of the account's transactions (deposits add,
// withdrawals subtract), and it never goes negative through ledger operations.
// The single exception is the administrative cascade on user deletion, which
// force-closes accounts regardless of balance.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	AccountNumber string          `json:"accountNumber"` // Unique, generated, immutable after creation
	UserID        *string         `json:"userID"`        // Nullable FK -> users.user_id; cleared on owner deletion
	FirstName     string          `json:"firstName"`     // Account holder name, patchable
	LastName      string          `json:"lastName"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	AuditFields
}

// IsClosed reports whether the account has reached its terminal state.
func (a *Account) IsClosed() bool {
	return a.Status == AccountClosed
}

// CanClose reports whether a normal (non-cascade) closure is allowed: the account
// must be ACTIVE and hold exactly zero balance.
func (a *Account) CanClose() bool {
	return a.Status == AccountActive && a.Balance.IsZero()
}
