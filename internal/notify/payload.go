package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"indiadoors-be/internal/invoice"
	"indiadoors-be/internal/order"
	"indiadoors-be/internal/payment"
	"indiadoors-be/internal/user"

	"github.com/shopspring/decimal"
)

// AdminPayload is a fully resolved admin notification: a subject line plus
// the string-valued merge variables the email template expects.
type AdminPayload struct {
	Subject   string
	MergeInfo map[string]string
	Reference string
}

// PayloadBuilder assembles the admin notification for a confirmed payment,
// keyed by the gateway order id.
type PayloadBuilder struct {
	payments      payment.Repository
	orders        order.Repository
	users         user.Repository
	invoices      invoice.Repository
	publicBaseURL string
}

func NewPayloadBuilder(payments payment.Repository, orders order.Repository, users user.Repository, invoices invoice.Repository, publicBaseURL string) *PayloadBuilder {
	return &PayloadBuilder{
		payments:      payments,
		orders:        orders,
		users:         users,
		invoices:      invoices,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (b *PayloadBuilder) Build(ctx context.Context, gatewayOrderID string) (*AdminPayload, error) {
	ref, err := b.payments.GetOrderRef(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}

	o, err := b.orders.GetByID(ctx, ref.OrderID)
	if err != nil {
		return nil, err
	}
	items, err := b.orders.GetItems(ctx, ref.OrderID)
	if err != nil {
		return nil, err
	}
	profile, err := b.users.GetProfile(ctx, ref.UserID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	var rows strings.Builder
	for _, it := range items {
		lineTotal := it.LineTotal()
		subtotal = subtotal.Add(lineTotal)
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		name := html.EscapeString(it.ItemName)
		if variant := it.VariantText(); variant != "" {
			name += "<br><small>" + html.EscapeString(variant) + "</small>"
		}
		fmt.Fprintf(&rows,
			"<tr><td>%s</td><td align=\"right\">%d</td><td align=\"right\">&#8377;%s</td><td align=\"right\">&#8377;%s</td></tr>",
			name, qty, it.ItemAmount.StringFixed(2), lineTotal.StringFixed(2))
	}

	// Older rows predate the shipping_fee column; reconstruct the fee from
	// the difference when the stored value is zero.
	shippingFee := o.ShippingFee
	if shippingFee.IsZero() {
		if diff := o.TotalAmount.Sub(subtotal); diff.IsPositive() {
			shippingFee = diff
		}
	}

	discount := subtotal.Add(shippingFee).Sub(o.TotalAmount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	merge := map[string]string{
		"order_id":         fmt.Sprintf("%d", o.ID),
		"order_total":      o.TotalAmount.StringFixed(2),
		"order_datetime":   o.OrderDate.Format("02 Jan 2006 15:04"),
		"order_status":     string(o.OrderStatus),
		"payment_status":   string(o.PaymentStatus),
		"payment_method":   o.PaymentMethod,
		"customer_name":    profile.Name,
		"customer_phone":   profile.Phone,
		"customer_email":   profile.Email,
		"customer_type":    profile.UserType,
		"shipping_address": textOrDash(o.ShippingAddressText),
		"billing_address":  textOrDash(o.BillingAddressText),
		"items_rows":       rows.String(),
		"subtotal":         subtotal.StringFixed(2),
		"shipping_fee":     shippingFee.StringFixed(2),
		"discount":         discount.StringFixed(2),
	}

	inv, err := b.invoices.GetByOrderID(ctx, ref.OrderID)
	switch {
	case err == nil:
		merge["invoice_no"] = inv.InvoiceNo
		merge["invoice_download_url"] = b.publicBaseURL + inv.PDFPath
	case errors.Is(err, invoice.ErrInvoiceNotFound):
		merge["invoice_no"] = "-"
		merge["invoice_download_url"] = ""
	default:
		return nil, err
	}

	return &AdminPayload{
		Subject: fmt.Sprintf("Order Confirmed #%d | ₹%s | %s",
			o.ID, o.TotalAmount.StringFixed(2), profile.Name),
		MergeInfo: merge,
		Reference: gatewayOrderID,
	}, nil
}

func textOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
