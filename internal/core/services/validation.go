package services

import (
	"fmt"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// validateAmountScale rejects monetary values carrying more fractional digits than
// the ledger stores. Inputs are never silently rounded.
func validateAmountScale(field string, amount decimal.Decimal) error {
	if amount.Exponent() < -domain.AmountScale {
		return fmt.Errorf("%w: %s must have at most %d decimal places", apperrors.ErrValidation, field, domain.AmountScale)
	}
	return nil
}
