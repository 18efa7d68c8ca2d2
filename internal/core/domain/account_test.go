package domain_test

import (
	"testing"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_CanClose(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		want    bool
	}{
		{
			name:    "active with zero balance",
			account: domain.Account{Status: domain.AccountActive, Balance: decimal.Zero},
			want:    true,
		},
		{
			name:    "active with positive balance",
			account: domain.Account{Status: domain.AccountActive, Balance: decimal.NewFromInt(1)},
			want:    false,
		},
		{
			name:    "already closed",
			account: domain.Account{Status: domain.AccountClosed, Balance: decimal.Zero},
			want:    false,
		},
		{
			name:    "zero balance at a different scale",
			account: domain.Account{Status: domain.AccountActive, Balance: decimal.RequireFromString("0.0000")},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.CanClose())
		})
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("25.50")

	deposit := domain.Transaction{Type: domain.Deposit, Amount: amount}
	assert.True(t, deposit.SignedAmount().Equal(amount))

	withdrawal := domain.Transaction{Type: domain.Withdrawal, Amount: amount}
	assert.True(t, withdrawal.SignedAmount().Equal(amount.Neg()))
}

func TestTransactionType_IsValid(t *testing.T) {
	assert.True(t, domain.Deposit.IsValid())
	assert.True(t, domain.Withdrawal.IsValid())
	assert.False(t, domain.TransactionType("TRANSFER").IsValid())
	assert.False(t, domain.TransactionType("").IsValid())
	assert.False(t, domain.TransactionType("deposit").IsValid())
}
