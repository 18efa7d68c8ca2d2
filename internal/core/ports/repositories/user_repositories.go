package repositories

import (
	"context"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by exact email match.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate when the email
	// is already registered.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's fields.
	UpdateUser(ctx context.Context, user domain.User) error

	// DeleteUserCascade clears the owner reference on every account owned by the
	// user, forces those accounts to CLOSED regardless of balance, and deletes the
	// user row, all within a single atomic unit.
	DeleteUserCascade(ctx context.Context, userID string, now time.Time) error
}

// UserRepository combines all user persistence operations.
type UserRepository interface {
	UserReader
	UserWriter
}
