package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// Payment is the single active payment row created for an order at checkout.
// The gateway order id is the join key for the verification callback, which
// only carries gateway-side identifiers.
type Payment struct {
	ID             uint
	OrderID        uint
	GatewayOrderID string
	Gateway        string
	Amount         decimal.Decimal
	Currency       string
	Status         Status
	PaymentMode    string

	// Populated only on a verified callback.
	GatewayPaymentID *string
	GatewaySignature *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GatewayOrder is the provider-side object representing an intended charge.
// Amount is in minor currency units.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// OrderRef identifies the internal order and its owner, resolved from a
// gateway order id via the payments table.
type OrderRef struct {
	OrderID uint
	UserID  uint
}
