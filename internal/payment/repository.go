package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"indiadoors-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetOrderRef(ctx context.Context, gatewayOrderID string) (*OrderRef, error)

	// CompletePaymentTx applies the verified-payment transition in a single
	// transaction: payment → Completed with gateway identifiers, order →
	// Paid/Processing with the tracking id backfilled. The two updates are
	// never observable separately.
	CompletePaymentTx(ctx context.Context, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (*OrderRef, error)

	// FailPaymentTx applies the signature-mismatch transition: payment →
	// Failed, order → Failed/Cancelled.
	FailPaymentTx(ctx context.Context, gatewayOrderID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePayment(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (
			order_id, gateway_order_id, payment_gateway,
			amount, currency, status, payment_mode
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		p.OrderID, p.GatewayOrderID, p.Gateway,
		p.Amount, p.Currency, p.Status, p.PaymentMode,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *repository) GetOrderRef(ctx context.Context, gatewayOrderID string) (*OrderRef, error) {
	var ref OrderRef
	err := r.db.QueryRowContext(ctx, `
		SELECT p.order_id, o.user_id
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE p.gateway_order_id = $1
	`, gatewayOrderID).Scan(&ref.OrderID, &ref.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *repository) CompletePaymentTx(ctx context.Context, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (*OrderRef, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CompletePaymentTx"),
		zap.String("gateway_order_id", gatewayOrderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var orderID uint
	err = tx.QueryRowContext(ctx, `
		UPDATE payments
		SET gateway_payment_id = $1, gateway_signature = $2,
		    status = $3, updated_at = NOW()
		WHERE gateway_order_id = $4
		RETURNING order_id
	`, gatewayPaymentID, gatewaySignature, StatusCompleted, gatewayOrderID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}

	var userID uint
	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET payment_status = 'Paid', order_status = 'Processing',
		    tracking_id = COALESCE(tracking_id, $1), updated_at = NOW()
		WHERE id = $2
		RETURNING user_id
	`, gatewayOrderID, orderID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	log.Info("payment completed",
		zap.Uint("order_id", orderID),
		zap.Uint("user_id", userID),
	)
	return &OrderRef{OrderID: orderID, UserID: userID}, nil
}

func (r *repository) FailPaymentTx(ctx context.Context, gatewayOrderID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FailPaymentTx"),
		zap.String("gateway_order_id", gatewayOrderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var orderID uint
	err = tx.QueryRowContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE gateway_order_id = $2
		RETURNING order_id
	`, StatusFailed, gatewayOrderID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPaymentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'Failed', order_status = 'Cancelled', updated_at = NOW()
		WHERE id = $1
	`, orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	log.Warn("payment marked failed", zap.Uint("order_id", orderID))
	return nil
}
