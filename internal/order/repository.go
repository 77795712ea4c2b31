package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"indiadoors-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx inserts the order row and its item snapshots in one
	// transaction, filling order.ID on success.
	CreateOrderTx(ctx context.Context, o *Order, items []OrderedItem) error
	SetTrackingID(ctx context.Context, orderID uint, trackingID string) error
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	GetItems(ctx context.Context, orderID uint) ([]OrderedItem, error)
	GetTrackingID(ctx context.Context, orderID uint) (string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order, items []OrderedItem) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.Uint("user_id", o.UserID),
		zap.Int("item_count", len(items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
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

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, total_amount, shipping_fee, currency,
			order_status, payment_status, payment_method,
			shipping_address_id, shipping_address_text,
			billing_address_id, billing_address_text
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`,
		o.UserID, o.TotalAmount, o.ShippingFee, o.Currency,
		o.OrderStatus, o.PaymentStatus, o.PaymentMethod,
		o.ShippingAddressID, o.ShippingAddressText,
		o.BillingAddressID, o.BillingAddressText,
	).Scan(&o.ID)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ordered_items (
				order_id, item_amount, item_name, width_in, height_in,
				front_wrap, back_wrap, front_wrap_price, back_wrap_price,
				front_carving, back_carving, front_carving_price, back_carving_price,
				quantity
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`,
			o.ID, item.ItemAmount, item.ItemName, item.WidthIn, item.HeightIn,
			item.FrontWrap, item.BackWrap, item.FrontWrapPrice, item.BackWrapPrice,
			item.FrontCarving, item.BackCarving, item.FrontCarvingPrice, item.BackCarvingPrice,
			item.Quantity,
		)
		if err != nil {
			log.Error("failed to insert ordered item",
				zap.Int("item_index", i),
				zap.Error(err),
			)
			return fmt.Errorf("failed to insert ordered item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	return nil
}

func (r *repository) SetTrackingID(ctx context.Context, orderID uint, trackingID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET tracking_id = $1 WHERE id = $2
	`, trackingID, orderID)
	if err != nil {
		return fmt.Errorf("failed to set tracking id: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, total_amount, shipping_fee, currency,
		       order_status, payment_status, payment_method,
		       shipping_address_text, billing_address_text,
		       tracking_id, order_date, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingFee, &o.Currency,
		&o.OrderStatus, &o.PaymentStatus, &o.PaymentMethod,
		&o.ShippingAddressText, &o.BillingAddressText,
		&o.TrackingID, &o.OrderDate, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetItems(ctx context.Context, orderID uint) ([]OrderedItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, item_name, item_amount, quantity,
		       width_in, height_in,
		       front_wrap, back_wrap, front_wrap_price, back_wrap_price,
		       front_carving, back_carving, front_carving_price, back_carving_price
		FROM ordered_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ordered items: %w", err)
	}
	defer rows.Close()

	var items []OrderedItem
	for rows.Next() {
		var it OrderedItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ItemName, &it.ItemAmount, &it.Quantity,
			&it.WidthIn, &it.HeightIn,
			&it.FrontWrap, &it.BackWrap, &it.FrontWrapPrice, &it.BackWrapPrice,
			&it.FrontCarving, &it.BackCarving, &it.FrontCarvingPrice, &it.BackCarvingPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) GetTrackingID(ctx context.Context, orderID uint) (string, error) {
	var trackingID sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT tracking_id FROM orders WHERE id = $1
	`, orderID).Scan(&trackingID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	if !trackingID.Valid || trackingID.String == "" {
		return "", ErrNoTrackingID
	}
	return trackingID.String, nil
}
