package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/bankstmt/bank_statement_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for an account's ledger.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvc
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ls portssvc.LedgerSvc) *transactionHandler {
	return &transactionHandler{
		ledgerService: ls,
	}
}

// registerTransactionRoutes registers the ledger routes nested under accounts.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc) {
	h := newTransactionHandler(ledgerService)

	transactions := rg.Group("/accounts/:accountNumber/transactions")
	{
		transactions.POST("", h.recordTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
	}
}

// recordTransaction applies one deposit or withdrawal to the account.
func (h *transactionHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	logger = logger.With(slog.String("account_number", accountNumber), slog.String("type", string(req.Type)))
	logger.Info("Received request to record transaction")

	txn, err := h.ledgerService.RecordTransaction(c.Request.Context(), accountNumber, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Transaction recorded successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions returns one page of the account's ledger, newest first,
// optionally filtered by date range and type.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindingError(c, err)
		return
	}

	logger = logger.With(slog.String("account_number", accountNumber))
	logger.Info("Received request to list transactions",
		slog.Int("page", params.Page), slog.Int("size", params.Size))

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), accountNumber, params)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Transactions listed successfully",
		slog.Int("count", len(page.Items)), slog.Int64("total", page.TotalElements))
	c.JSON(http.StatusOK, dto.MapPage(page, func(txn domain.Transaction) dto.TransactionResponse {
		return dto.ToTransactionResponse(&txn)
	}))
}

// getTransaction retrieves a transaction scoped to its owning account.
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber := c.Param("accountNumber")
	transactionID := c.Param("transactionID")

	logger = logger.With(
		slog.String("account_number", accountNumber),
		slog.String("transaction_id", transactionID))
	logger.Info("Received request to get transaction")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), accountNumber, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("Transaction retrieved successfully")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
