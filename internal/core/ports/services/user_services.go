package services

import (
	"context"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	"github.com/bankstmt/bank_statement_app/internal/dto"
)

// UserSvc is the user directory facade.
type UserSvc interface {
	// CreateUser registers a new user, enforcing email uniqueness.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a single user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error)

	// UpdateUser patches user fields. Returns apperrors.ErrNoChanges when every
	// supplied field already matches the stored state, and apperrors.ErrConflict
	// when the new email belongs to a different user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// DeleteUser removes a user after disassociating and force-closing every owned
	// account, regardless of balance.
	DeleteUser(ctx context.Context, userID string) error
}
