package verify

import (
	"context"
	"errors"

	"indiadoors-be/internal/invoice"
	"indiadoors-be/internal/logger"
	"indiadoors-be/internal/notify"
	"indiadoors-be/internal/payment"

	"go.uber.org/zap"
)

var ErrMissingFields = errors.New("gateway order id, payment id and signature are required")

// Input carries the gateway callback fields the client posts back after a
// checkout payment.
type Input struct {
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
}

// Result is returned on a successful confirmation. Invoice is nil when
// invoice generation failed; the order is still confirmed.
type Result struct {
	OrderID    uint
	TrackingID string
	Invoice    *invoice.Invoice
	Effects    []notify.Outcome
}

type invoiceGenerator interface {
	Generate(ctx context.Context, gatewayOrderID string) (*invoice.Invoice, error)
}

type cartClearer interface {
	ClearByCustomer(ctx context.Context, customerID uint) error
}

type adminNotifier interface {
	NotifyAdmin(ctx context.Context, gatewayOrderID string) notify.Outcome
}

type Service interface {
	// Confirm checks the gateway signature and settles the payment. A valid
	// signature atomically marks the payment completed and the order paid,
	// then runs the post-payment side effects (cart cleanup, invoice,
	// admin email) best effort: none of them can fail the confirmation.
	// An invalid signature marks the payment failed and the order cancelled
	// and returns ErrInvalidSignature.
	Confirm(ctx context.Context, in Input) (*Result, error)
}

type service struct {
	payments payment.Repository
	secret   string
	carts    cartClearer
	invoices invoiceGenerator
	notifier adminNotifier
}

func NewService(payments payment.Repository, secret string, carts cartClearer, invoices invoiceGenerator, notifier adminNotifier) Service {
	return &service{
		payments: payments,
		secret:   secret,
		carts:    carts,
		invoices: invoices,
		notifier: notifier,
	}
}

func (s *service) Confirm(ctx context.Context, in Input) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmPayment"),
		zap.String("gateway_order_id", in.GatewayOrderID),
	)

	if in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.GatewaySignature == "" {
		return nil, ErrMissingFields
	}

	if !payment.VerifySignature(in.GatewayOrderID, in.GatewayPaymentID, s.secret, in.GatewaySignature) {
		log.Warn("signature mismatch, failing payment",
			zap.String("gateway_payment_id", in.GatewayPaymentID),
		)
		if err := s.payments.FailPaymentTx(ctx, in.GatewayOrderID); err != nil {
			log.Error("failed to record failed payment", zap.Error(err))
		}
		return nil, payment.ErrInvalidSignature
	}

	ref, err := s.payments.CompletePaymentTx(ctx, in.GatewayOrderID, in.GatewayPaymentID, in.GatewaySignature)
	if err != nil {
		return nil, err
	}

	res := &Result{OrderID: ref.OrderID, TrackingID: in.GatewayOrderID}

	// Side effects run after the transition committed. Each one is isolated
	// so a broken mailer or converter never rolls back a paid order.
	if err := s.carts.ClearByCustomer(ctx, ref.UserID); err != nil {
		log.Error("failed to clear cart after payment", zap.Uint("user_id", ref.UserID), zap.Error(err))
		res.Effects = append(res.Effects, notify.Outcome{Step: "cart_clear", Detail: err.Error()})
	} else {
		res.Effects = append(res.Effects, notify.Outcome{Step: "cart_clear", OK: true})
	}

	inv, err := s.invoices.Generate(ctx, in.GatewayOrderID)
	if err != nil {
		log.Error("failed to generate invoice after payment", zap.Error(err))
		res.Effects = append(res.Effects, notify.Outcome{Step: "invoice", Detail: err.Error()})
	} else {
		res.Invoice = inv
		res.Effects = append(res.Effects, notify.Outcome{Step: "invoice", OK: true})
	}

	res.Effects = append(res.Effects, s.notifier.NotifyAdmin(ctx, in.GatewayOrderID))

	for _, eff := range res.Effects {
		if !eff.OK {
			log.Warn("post-payment side effect failed",
				zap.String("step", eff.Step),
				zap.String("detail", eff.Detail),
			)
		}
	}

	log.Info("payment confirmed", zap.Uint("order_id", ref.OrderID))
	return res, nil
}
