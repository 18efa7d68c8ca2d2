package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/bankstmt/bank_statement_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService    portssvc.UserSvc
	accountService portssvc.AccountSvc
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvc, as portssvc.AccountSvc) *userHandler {
	return &userHandler{
		userService:    us,
		accountService: as,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvc, accountService portssvc.AccountSvc) {
	h := newUserHandler(userService, accountService)

	users := rg.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
	}
}

// createUser registers a new user from the request body.
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	logger.Info("Received request to create user", slog.String("email", req.Email))

	createdUser, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("User created successfully", slog.String("new_user_id", createdUser.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(createdUser))
}

// getUser retrieves a user together with the accounts they hold.
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	logger = logger.With(slog.String("target_user_id", userID))
	logger.Info("Received request to get user")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccountsForUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("User retrieved successfully")
	c.JSON(http.StatusOK, dto.ToUserResponseWithAccounts(user, accounts))
}

// listUsers retrieves a paginated list of users, each with the accounts they hold.
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindingError(c, err)
		return
	}

	logger.Info("Received request to list users", slog.Int("limit", params.Limit), slog.Int("offset", params.Offset))

	users, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Users listed successfully", slog.Int("count", len(users)))
	userResponses := make([]dto.UserResponse, len(users))
	for i := range users {
		accounts, err := h.accountService.ListAccountsForUser(c.Request.Context(), users[i].UserID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		userResponses[i] = dto.ToUserResponseWithAccounts(&users[i], accounts)
	}
	c.JSON(http.StatusOK, userResponses)
}

// updateUser patches a user's details. When the patch changes nothing, the
// current state is returned with 200 rather than an error.
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if !req.HasFields() {
		respondBindingError(c, errors.New("at least one field must be provided"))
		return
	}

	logger = logger.With(slog.String("target_user_id", userID))
	logger.Info("Received request to update user")

	updatedUser, err := h.userService.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoChanges) {
			current, getErr := h.userService.GetUserByID(c.Request.Context(), userID)
			if getErr != nil {
				respondWithError(c, getErr)
				return
			}
			logger.Info("No changes to apply for user")
			c.JSON(http.StatusOK, dto.ToUserResponse(current))
			return
		}
		respondWithError(c, err)
		return
	}

	logger.Info("User updated successfully")
	c.JSON(http.StatusOK, dto.ToUserResponse(updatedUser))
}

// deleteUser removes a user; their accounts are disowned and force-closed.
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	logger = logger.With(slog.String("target_user_id", userID))
	logger.Info("Received request to delete user")

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("User deleted successfully")
	c.Status(http.StatusNoContent)
}
