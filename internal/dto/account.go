package dto

import (
	"time"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	UserID         string          `json:"userID" binding:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// UpdateAccountRequest defines the patchable account holder fields.
// Pointers distinguish omitted fields from zero-value updates.
type UpdateAccountRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// HasFields reports whether the patch supplies at least one field.
func (r *UpdateAccountRequest) HasFields() bool {
	return r.FirstName != nil || r.LastName != nil
}

// AccountStatusUpdateRequest carries the requested status transition.
type AccountStatusUpdateRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE CLOSED"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	AccountNumber string               `json:"accountNumber"`
	UserID        *string              `json:"userID,omitempty"`
	FirstName     string               `json:"firstName"`
	LastName      string               `json:"lastName"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		UserID:        acc.UserID,
		FirstName:     acc.FirstName,
		LastName:      acc.LastName,
		Balance:       acc.Balance,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain accounts to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
