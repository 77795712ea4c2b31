package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

type Order struct {
	ID            uint
	UserID        uint
	TotalAmount   decimal.Decimal
	ShippingFee   decimal.Decimal
	Currency      string
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod string

	// Address snapshots captured at checkout, immutable afterwards. The id
	// columns stay null for custom addresses.
	ShippingAddressID   *uint
	ShippingAddressText *string
	BillingAddressID    *uint
	BillingAddressText  *string

	// TrackingID carries the gateway order id once one is created.
	TrackingID *string

	OrderDate time.Time
	UpdatedAt time.Time

	Items []OrderedItem
}

// OrderedItem is a checkout-time snapshot of a cart line. Prices and variant
// attributes are copied, never referenced, so catalog edits cannot rewrite
// order history.
type OrderedItem struct {
	ID         uint
	OrderID    uint
	ItemName   string
	ItemAmount decimal.Decimal
	Quantity   int

	WidthIn  *decimal.Decimal
	HeightIn *decimal.Decimal

	FrontWrap        *string
	BackWrap         *string
	FrontWrapPrice   *decimal.Decimal
	BackWrapPrice    *decimal.Decimal
	FrontCarving     *string
	BackCarving      *string
	FrontCarvingPrice *decimal.Decimal
	BackCarvingPrice  *decimal.Decimal
}

// VariantText renders the dimensional and finish attributes as a single line,
// shared by the invoice document and the admin notification.
func (it OrderedItem) VariantText() string {
	var parts []string
	if it.WidthIn != nil && it.HeightIn != nil && !it.WidthIn.IsZero() && !it.HeightIn.IsZero() {
		parts = append(parts, fmt.Sprintf("%sx%s in", it.WidthIn.String(), it.HeightIn.String()))
	}
	if it.FrontWrap != nil && *it.FrontWrap != "" {
		parts = append(parts, "Front Wrap: "+*it.FrontWrap)
	}
	if it.BackWrap != nil && *it.BackWrap != "" {
		parts = append(parts, "Back Wrap: "+*it.BackWrap)
	}
	if it.FrontCarving != nil && *it.FrontCarving != "" {
		parts = append(parts, "Front Carving: "+*it.FrontCarving)
	}
	if it.BackCarving != nil && *it.BackCarving != "" {
		parts = append(parts, "Back Carving: "+*it.BackCarving)
	}
	return strings.Join(parts, " | ")
}

// LineTotal is unit amount times quantity, with quantity defaulting to one.
func (it OrderedItem) LineTotal() decimal.Decimal {
	qty := it.Quantity
	if qty <= 0 {
		qty = 1
	}
	return it.ItemAmount.Mul(decimal.NewFromInt(int64(qty)))
}
