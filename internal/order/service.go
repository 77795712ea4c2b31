package order

import (
	"context"
	"fmt"

	"indiadoors-be/internal/logger"
	"indiadoors-be/internal/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutItemInput is a cart line snapshot as submitted by the client.
type CheckoutItemInput struct {
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

type CheckoutInput struct {
	Items             []CheckoutItemInput
	TotalAmount       decimal.Decimal
	ShippingFee       decimal.Decimal
	ShippingSelection string
	ShippingAddress   map[string]string
}

const (
	ShippingSelectionCustom = "custom"

	currencyINR         = "INR"
	paymentMethodOnline = "Online"
	gatewayRazorpay     = "Razorpay"
)

type Service interface {
	// Checkout persists a pending order with item snapshots, creates the
	// gateway order and the pending payment row, and returns the gateway
	// handle for the client-side payment UI.
	Checkout(ctx context.Context, userID uint, input CheckoutInput) (*payment.GatewayOrder, error)
	GetOrderDetail(ctx context.Context, userID, orderID uint, isAdmin bool) (*Order, error)

	// GetTrackingID resolves the gateway order id linked to an order, for
	// re-running gateway-keyed flows such as the admin notification.
	GetTrackingID(ctx context.Context, orderID uint) (string, error)
}

type service struct {
	repo        Repository
	paymentRepo payment.Repository
	gateway     payment.Gateway
}

func NewService(repo Repository, paymentRepo payment.Repository, gateway payment.Gateway) Service {
	return &service{
		repo:        repo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
	}
}

func (s *service) Checkout(ctx context.Context, userID uint, input CheckoutInput) (*payment.GatewayOrder, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", userID),
		zap.Int("item_count", len(input.Items)),
	)

	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Custom addresses are snapshotted as display text, identically for
	// shipping and billing; no reusable address row is involved so the id
	// columns stay null.
	var shippingText, billingText *string
	if input.ShippingSelection == ShippingSelectionCustom {
		if text := BuildAddressText(input.ShippingAddress); text != "" {
			shippingText = &text
			billingText = &text
		}
	}

	o := &Order{
		UserID:              userID,
		TotalAmount:         input.TotalAmount,
		ShippingFee:         input.ShippingFee,
		Currency:            currencyINR,
		OrderStatus:         StatusPending,
		PaymentStatus:       PaymentPending,
		PaymentMethod:       paymentMethodOnline,
		ShippingAddressText: shippingText,
		BillingAddressText:  billingText,
	}

	items := make([]OrderedItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, OrderedItem{
			ItemName:          in.ItemName,
			ItemAmount:        in.ItemAmount,
			Quantity:          in.Quantity,
			WidthIn:           in.WidthIn,
			HeightIn:          in.HeightIn,
			FrontWrap:         in.FrontWrap,
			BackWrap:          in.BackWrap,
			FrontWrapPrice:    in.FrontWrapPrice,
			BackWrapPrice:     in.BackWrapPrice,
			FrontCarving:      in.FrontCarving,
			BackCarving:       in.BackCarving,
			FrontCarvingPrice: in.FrontCarvingPrice,
			BackCarvingPrice:  in.BackCarvingPrice,
		})
	}

	if err := s.repo.CreateOrderTx(ctx, o, items); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log = log.With(zap.Uint("order_id", o.ID))

	// Amount is validated before the gateway call. The order row already
	// exists at this point; a rejected checkout leaves it behind as an
	// abandoned pending order and the user simply retries.
	if !input.TotalAmount.IsPositive() {
		log.Warn("rejected non-positive checkout amount",
			zap.String("total_amount", input.TotalAmount.String()),
		)
		return nil, ErrInvalidAmount
	}

	amountMinor := input.TotalAmount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	receipt := fmt.Sprintf("order_%d", o.ID)

	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountMinor, currencyINR, receipt)
	if err != nil {
		log.Error("gateway order creation failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	if err := s.repo.SetTrackingID(ctx, o.ID, gatewayOrder.ID); err != nil {
		log.Error("failed to link gateway order", zap.Error(err))
		return nil, err
	}

	if err := s.paymentRepo.CreatePayment(ctx, &payment.Payment{
		OrderID:        o.ID,
		GatewayOrderID: gatewayOrder.ID,
		Gateway:        gatewayRazorpay,
		Amount:         input.TotalAmount,
		Currency:       currencyINR,
		Status:         payment.StatusPending,
		PaymentMode:    paymentMethodOnline,
	}); err != nil {
		log.Error("failed to save payment", zap.Error(err))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	log.Info("checkout completed",
		zap.String("gateway_order_id", gatewayOrder.ID),
		zap.Int64("amount_minor", gatewayOrder.Amount),
	)

	return gatewayOrder, nil
}

func (s *service) GetOrderDetail(ctx context.Context, userID, orderID uint, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.UserID != userID {
		return nil, ErrUnauthorized
	}

	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (s *service) GetTrackingID(ctx context.Context, orderID uint) (string, error) {
	return s.repo.GetTrackingID(ctx, orderID)
}
