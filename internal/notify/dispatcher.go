package notify

import (
	"context"

	"indiadoors-be/internal/logger"
	"indiadoors-be/internal/mailer"

	"go.uber.org/zap"
)

// Outcome reports one dispatched side effect. Failures are carried as data
// instead of errors so callers can log them without aborting their own flow.
type Outcome struct {
	Step   string
	OK     bool
	Detail string
}

// Dispatcher sends the admin order-confirmation email. Delivery is strictly
// best effort: any failure is logged and reported in the Outcome, and never
// propagates to the payment flow that triggered it.
type Dispatcher struct {
	builder     *PayloadBuilder
	sender      mailer.Sender
	templateKey string
	from        mailer.Recipient
	adminEmail  string
}

func NewDispatcher(builder *PayloadBuilder, sender mailer.Sender, templateKey string, from mailer.Recipient, adminEmail string) *Dispatcher {
	return &Dispatcher{
		builder:     builder,
		sender:      sender,
		templateKey: templateKey,
		from:        from,
		adminEmail:  adminEmail,
	}
}

const stepAdminEmail = "admin_email"

func (d *Dispatcher) NotifyAdmin(ctx context.Context, gatewayOrderID string) Outcome {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "dispatcher"),
		zap.String("gateway_order_id", gatewayOrderID),
	)

	if d.adminEmail == "" {
		log.Warn("admin notification skipped, no admin email configured")
		return Outcome{Step: stepAdminEmail, OK: false, Detail: "no admin email configured"}
	}

	payload, err := d.builder.Build(ctx, gatewayOrderID)
	if err != nil {
		log.Error("failed to build admin notification", zap.Error(err))
		return Outcome{Step: stepAdminEmail, OK: false, Detail: err.Error()}
	}

	res, err := d.sender.SendTemplate(ctx, mailer.TemplateMessage{
		TemplateKey:     d.templateKey,
		From:            d.from,
		To:              []mailer.Recipient{{Address: d.adminEmail, Name: "Admin"}},
		Subject:         payload.Subject,
		MergeInfo:       payload.MergeInfo,
		ClientReference: payload.Reference,
	})
	if err != nil {
		log.Error("failed to send admin notification", zap.Error(err))
		return Outcome{Step: stepAdminEmail, OK: false, Detail: err.Error()}
	}

	log.Info("admin notification sent",
		zap.String("subject", payload.Subject),
		zap.String("mailer_request_id", res.RequestID),
	)
	return Outcome{Step: stepAdminEmail, OK: true}
}
