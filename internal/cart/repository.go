package cart

import (
	"context"
	"database/sql"
	"fmt"
)

type Repository interface {
	ListPending(ctx context.Context, customerID uint) ([]*Item, error)
	// ClearByCustomer deletes every cart line for the customer. Runs as a
	// best-effort step after payment confirmation.
	ClearByCustomer(ctx context.Context, customerID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPending(ctx context.Context, customerID uint) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, item_name, item_amount, quantity, status, created_at
		FROM cart_items
		WHERE customer_id = $1 AND status = $2
		ORDER BY id ASC
	`, customerID, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.CustomerID, &it.ItemName, &it.ItemAmount,
			&it.Quantity, &it.Status, &it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *repository) ClearByCustomer(ctx context.Context, customerID uint) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE customer_id = $1
	`, customerID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
