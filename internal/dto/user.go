package dto

import (
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a new user.
type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Address   string `json:"address"`
}

// UpdateUserRequest defines the patchable user fields. Pointers distinguish
// omitted fields from zero-value updates.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	Address   *string `json:"address"`
}

// HasFields reports whether the patch supplies at least one field.
func (r *UpdateUserRequest) HasFields() bool {
	return r.FirstName != nil || r.LastName != nil || r.Email != nil ||
		r.Password != nil || r.Address != nil
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20" binding:"gt=0,lte=100"`
	Offset int `form:"offset,default=0" binding:"gte=0"`
}

// UserResponse defines the data returned for a user. The password never appears
// in output. Accounts are included for directory-style reads.
type UserResponse struct {
	UserID    string            `json:"userID"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Email     string            `json:"email"`
	Address   string            `json:"address"`
	Accounts  []AccountResponse `json:"accounts,omitempty"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Address:   user.Address,
	}
}

// ToUserResponseWithAccounts converts a user plus its owned accounts.
func ToUserResponseWithAccounts(user *domain.User, accounts []domain.Account) UserResponse {
	resp := ToUserResponse(user)
	resp.Accounts = ToListAccountResponse(accounts)
	return resp
}
