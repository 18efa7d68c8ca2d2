package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// AmountScale is the fixed number of fractional digits carried by every monetary
// value in the system. Inputs with more precision are rejected, not rounded.
const AmountScale = 4
