package payment

import "context"

// Gateway abstracts the payment provider. The provider-side order is created
// before the buyer pays; the client SDK drives the actual payment UI.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*GatewayOrder, error)
}
