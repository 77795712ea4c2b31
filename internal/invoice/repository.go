package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"indiadoors-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// EnsureSequenceTable creates the per-fiscal-year counter table if it
	// does not exist. DDL is kept outside the allocation transaction.
	EnsureSequenceTable(ctx context.Context) error

	// AllocateTx resolves the order behind a gateway order id and returns its
	// invoice, creating one with the next gapless number for the fiscal year
	// of now when none exists. The bool reports whether a row was created.
	AllocateTx(ctx context.Context, gatewayOrderID string, now time.Time) (*Invoice, bool, error)

	GetByOrderID(ctx context.Context, orderID uint) (*Invoice, error)
	GetGatewayPaymentID(ctx context.Context, gatewayOrderID string) (string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) EnsureSequenceTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS invoice_sequences (
			fy VARCHAR(10) PRIMARY KEY,
			last_no INT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure invoice_sequences: %w", err)
	}
	return nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID uint) (*Invoice, error) {
	var inv Invoice
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, invoice_no, invoice_date, pdf_path, status
		FROM invoices
		WHERE order_id = $1
	`, orderID).Scan(&inv.ID, &inv.OrderID, &inv.InvoiceNo, &inv.InvoiceDate, &inv.PDFPath, &inv.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) GetGatewayPaymentID(ctx context.Context, gatewayOrderID string) (string, error) {
	var id sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT gateway_payment_id FROM payments WHERE gateway_order_id = $1
	`, gatewayOrderID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPaymentMissing
	}
	if err != nil {
		return "", err
	}
	return id.String, nil
}

func (r *repository) AllocateTx(ctx context.Context, gatewayOrderID string, now time.Time) (*Invoice, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AllocateTx"),
		zap.String("gateway_order_id", gatewayOrderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
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
		SELECT order_id FROM payments WHERE gateway_order_id = $1
	`, gatewayOrderID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, ErrPaymentMissing
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve order: %w", err)
	}

	existing, err := scanInvoiceTx(ctx, tx, orderID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		committed = true
		return existing, false, nil
	}

	fy := FiscalYear(now)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoice_sequences (fy, last_no) VALUES ($1, 0)
		ON CONFLICT (fy) DO NOTHING
	`, fy)
	if err != nil {
		return nil, false, fmt.Errorf("failed to seed sequence row: %w", err)
	}

	var lastNo int
	err = tx.QueryRowContext(ctx, `
		SELECT last_no FROM invoice_sequences WHERE fy = $1 FOR UPDATE
	`, fy).Scan(&lastNo)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock sequence row: %w", err)
	}

	next := lastNo + 1
	_, err = tx.ExecContext(ctx, `
		UPDATE invoice_sequences SET last_no = $1 WHERE fy = $2
	`, next, fy)
	if err != nil {
		return nil, false, fmt.Errorf("failed to advance sequence: %w", err)
	}

	invoiceNo := FormatNumber(fy, next)

	inv := &Invoice{OrderID: orderID, InvoiceNo: invoiceNo, PDFPath: WebPath(invoiceNo)}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO invoices (order_id, invoice_no, pdf_path)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, invoice_date, status
	`, inv.OrderID, inv.InvoiceNo, inv.PDFPath).Scan(&inv.ID, &inv.InvoiceDate, &inv.Status)
	if errors.Is(err, sql.ErrNoRows) {
		// A concurrent caller inserted this order's invoice first. Re-read
		// its row and keep it; the consumed sequence value is abandoned.
		raced, rerr := scanInvoiceTx(ctx, tx, orderID)
		if rerr != nil {
			return nil, false, rerr
		}
		if raced == nil {
			return nil, false, fmt.Errorf("invoice insert conflicted but no row found for order %d", orderID)
		}
		if cerr := tx.Commit(); cerr != nil {
			return nil, false, cerr
		}
		committed = true
		log.Warn("lost invoice allocation race, reusing existing row",
			zap.Uint("order_id", orderID),
			zap.String("invoice_no", raced.InvoiceNo),
		)
		return raced, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert invoice: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	committed = true

	log.Info("invoice allocated",
		zap.Uint("order_id", orderID),
		zap.String("invoice_no", invoiceNo),
	)
	return inv, true, nil
}

func scanInvoiceTx(ctx context.Context, tx *sql.Tx, orderID uint) (*Invoice, error) {
	var inv Invoice
	err := tx.QueryRowContext(ctx, `
		SELECT id, order_id, invoice_no, invoice_date, pdf_path, status
		FROM invoices
		WHERE order_id = $1
	`, orderID).Scan(&inv.ID, &inv.OrderID, &inv.InvoiceNo, &inv.InvoiceDate, &inv.PDFPath, &inv.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice: %w", err)
	}
	return &inv, nil
}
