package dto

import (
	"time"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a ledger entry.
// Amount is a pointer so a missing amount is distinguishable from zero and can be
// rejected explicitly.
type CreateTransactionRequest struct {
	Description string                 `json:"description" binding:"required"`
	Amount      *decimal.Decimal       `json:"amount" binding:"required,decimalgtzero"`
	Type        domain.TransactionType `json:"type" binding:"required"`
	OccurredAt  *time.Time             `json:"occurredAt"`
}

// ListTransactionsParams defines query parameters for listing an account's
// transactions. StartDate/EndDate are day-granularity (2006-01-02) and inclusive
// on both ends.
type ListTransactionsParams struct {
	Page      int     `form:"page,default=0" binding:"gte=0"`
	Size      int     `form:"size,default=20" binding:"gt=0,lte=100"`
	StartDate *string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Type      *string `form:"type" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL"`
}

// TransactionResponse defines the data returned for a ledger entry. Balance is the
// account balance immediately after the transaction, so callers can display a
// running balance without a second read.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	AccountNumber string                 `json:"accountNumber"`
	OccurredAt    time.Time              `json:"occurredAt"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          domain.TransactionType `json:"type"`
	Balance       decimal.Decimal        `json:"balance"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountNumber: txn.AccountNumber,
		OccurredAt:    txn.OccurredAt,
		Description:   txn.Description,
		Amount:        txn.Amount,
		Type:          txn.Type,
		Balance:       txn.RunningBalance,
	}
}
