package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Item is a cart line owned by a customer. Pending lines are snapshotted into
// ordered_items at checkout and deleted outright once payment is confirmed.
type Item struct {
	ID         uint
	CustomerID uint
	ItemName   string
	ItemAmount decimal.Decimal
	Quantity   int
	Status     Status
	CreatedAt  time.Time
}
