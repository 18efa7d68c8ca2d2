package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/bankstmt/bank_statement_app/internal/utils"
	"github.com/google/uuid"
)

// userService implements the UserSvc facade.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
}

// NewUserService creates the user directory service.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvc {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvc = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	// Email matching is byte-exact; the unique constraint backs this check up
	// against concurrent registrations.
	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check email uniqueness", slog.String("email", req.Email))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already in use: %s", apperrors.ErrConflict, req.Email)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already in use: %s", apperrors.ErrConflict, req.Email)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("email", req.Email))
		return nil, err
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := false

	if req.Email != nil && *req.Email != user.Email {
		other, err := s.userRepo.FindUserByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check email uniqueness", slog.String("email", *req.Email))
			return nil, err
		}
		if other != nil && other.UserID != userID {
			return nil, fmt.Errorf("%w: email already in use: %s", apperrors.ErrConflict, *req.Email)
		}
		user.Email = *req.Email
		updated = true
	}
	if req.FirstName != nil && *req.FirstName != user.FirstName {
		user.FirstName = *req.FirstName
		updated = true
	}
	if req.LastName != nil && *req.LastName != user.LastName {
		user.LastName = *req.LastName
		updated = true
	}
	if req.Address != nil && *req.Address != user.Address {
		user.Address = *req.Address
		updated = true
	}
	if req.Password != nil && !utils.CheckPasswordHash(*req.Password, user.PasswordHash) {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			s.LogError(ctx, err, "Failed to hash password")
			return nil, err
		}
		user.PasswordHash = hash
		updated = true
	}

	if !updated {
		s.LogDebug(ctx, "No changes detected for user", slog.String("user_id", userID))
		return nil, apperrors.ErrNoChanges
	}

	user.LastUpdatedAt = time.Now().UTC()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already in use: %s", apperrors.ErrConflict, user.Email)
		}
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}

	// Administrative cascade: every owned account is disowned and forced CLOSED
	// regardless of balance. This is the single documented exception to the
	// zero-balance closure rule.
	if err := s.userRepo.DeleteUserCascade(ctx, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "User deleted and owned accounts closed", slog.String("user_id", userID))
	return nil
}
