package types

import (
	"time"

	"github.com/rowdysden/rowdysden-backend/pkg/enums"
)

// Payment records how an order was (or will be) settled.
type Payment struct {
	Method        enums.PaymentMethod `json:"method"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Paid          bool                `json:"paid"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
}
