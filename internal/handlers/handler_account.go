package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/bankstmt/bank_statement_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers all account-related routes.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvc) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountNumber", h.getAccount)
		accounts.PATCH("/:accountNumber", h.updateAccount)
		accounts.PUT("/:accountNumber/status", h.updateAccountStatus)
	}
}

// createAccount opens a new account for an existing user, optionally funding it
// with an initial deposit.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	logger.Info("Received request to create account", slog.String("user_id", req.UserID))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Account created successfully", slog.String("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount retrieves a single account by account number.
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	logger = logger.With(slog.String("account_number", accountNumber))
	logger.Info("Received request to get account")

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), accountNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Account retrieved successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts retrieves all accounts held by the user named in the query.
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID := c.Query("userID")
	if userID == "" {
		respondBindingError(c, errors.New("query parameter userID is required"))
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to list accounts for user")

	accounts, err := h.accountService.ListAccountsForUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount patches the account holder name. When the patch changes
// nothing, the current state is returned with 200 rather than an error.
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if !req.HasFields() {
		respondBindingError(c, errors.New("at least one field must be provided"))
		return
	}

	logger = logger.With(slog.String("account_number", accountNumber))
	logger.Info("Received request to update account")

	account, err := h.accountService.UpdateAccount(c.Request.Context(), accountNumber, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoChanges) {
			current, getErr := h.accountService.GetAccountByNumber(c.Request.Context(), accountNumber)
			if getErr != nil {
				respondWithError(c, getErr)
				return
			}
			logger.Info("No changes to apply for account")
			c.JSON(http.StatusOK, dto.ToAccountResponse(current))
			return
		}
		respondWithError(c, err)
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccountStatus transitions an account's status. CLOSED is the only
// transition exposed; closure requires an ACTIVE account with a zero balance.
func (h *accountHandler) updateAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")
	var req dto.AccountStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	logger = logger.With(slog.String("account_number", accountNumber), slog.String("status", string(req.Status)))
	logger.Info("Received request to update account status")

	if req.Status != domain.AccountClosed {
		respondWithError(c, fmt.Errorf("%w: only transition to %s is supported", apperrors.ErrInvalidOperation, domain.AccountClosed))
		return
	}

	if err := h.accountService.CloseAccount(c.Request.Context(), accountNumber); err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), accountNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Account closed successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
