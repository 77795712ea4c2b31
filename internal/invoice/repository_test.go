package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var april10 = time.Date(2025, time.April, 10, 11, 0, 0, 0, time.UTC)

func TestRepository_AllocateTx_NewInvoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT order_id FROM payments WHERE gateway_order_id = \$1`).
		WithArgs("order_rzp_1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
	mock.ExpectQuery(`SELECT id, order_id, invoice_no, invoice_date, pdf_path, status\s+FROM invoices`).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO invoice_sequences \(fy, last_no\) VALUES \(\$1, 0\)`).
		WithArgs("2025-26").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT last_no FROM invoice_sequences WHERE fy = \$1 FOR UPDATE`).
		WithArgs("2025-26").
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(0))
	mock.ExpectExec(`UPDATE invoice_sequences SET last_no = \$1 WHERE fy = \$2`).
		WithArgs(1, "2025-26").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO invoices \(order_id, invoice_no, pdf_path\)`).
		WithArgs(uint(42), "IND/2025-26/000001", "/invoices/invoice_IND_2025-26_000001.pdf").
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_date", "status"}).
			AddRow(9, april10, "Generated"))
	mock.ExpectCommit()

	inv, created, err := repo.AllocateTx(context.Background(), "order_rzp_1", april10)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "IND/2025-26/000001", inv.InvoiceNo)
	assert.Equal(t, uint(42), inv.OrderID)
	assert.Equal(t, "/invoices/invoice_IND_2025-26_000001.pdf", inv.PDFPath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AllocateTx_ExistingInvoice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT order_id FROM payments`).
		WithArgs("order_rzp_1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
	mock.ExpectQuery(`SELECT id, order_id, invoice_no, invoice_date, pdf_path, status\s+FROM invoices`).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "invoice_no", "invoice_date", "pdf_path", "status"}).
			AddRow(9, 42, "IND/2025-26/000001", april10, "/invoices/invoice_IND_2025-26_000001.pdf", "Generated"))
	mock.ExpectCommit()

	inv, created, err := repo.AllocateTx(context.Background(), "order_rzp_1", april10)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "IND/2025-26/000001", inv.InvoiceNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent caller can insert the order's invoice between the existence
// check and our insert. The conflicting insert returns no row and the
// transaction re-reads the winner.
func TestRepository_AllocateTx_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT order_id FROM payments`).
		WithArgs("order_rzp_1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
	mock.ExpectQuery(`SELECT id, order_id, invoice_no, invoice_date, pdf_path, status\s+FROM invoices`).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO invoice_sequences`).
		WithArgs("2025-26").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT last_no FROM invoice_sequences`).
		WithArgs("2025-26").
		WillReturnRows(sqlmock.NewRows([]string{"last_no"}).AddRow(4))
	mock.ExpectExec(`UPDATE invoice_sequences SET last_no`).
		WithArgs(5, "2025-26").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO invoices`).
		WithArgs(uint(42), "IND/2025-26/000005", "/invoices/invoice_IND_2025-26_000005.pdf").
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_date", "status"}))
	mock.ExpectQuery(`SELECT id, order_id, invoice_no, invoice_date, pdf_path, status\s+FROM invoices`).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "invoice_no", "invoice_date", "pdf_path", "status"}).
			AddRow(9, 42, "IND/2025-26/000004", april10, "/invoices/invoice_IND_2025-26_000004.pdf", "Generated"))
	mock.ExpectCommit()

	inv, created, err := repo.AllocateTx(context.Background(), "order_rzp_1", april10)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "IND/2025-26/000004", inv.InvoiceNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AllocateTx_NoPayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT order_id FROM payments`).
		WithArgs("order_missing").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))
	mock.ExpectRollback()

	_, _, err = repo.AllocateTx(context.Background(), "order_missing", april10)
	assert.ErrorIs(t, err, ErrPaymentMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AllocateTx_SequenceLockError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT order_id FROM payments`).
		WithArgs("order_rzp_1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
	mock.ExpectQuery(`SELECT id, order_id, invoice_no, invoice_date, pdf_path, status\s+FROM invoices`).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO invoice_sequences`).
		WithArgs("2025-26").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT last_no FROM invoice_sequences`).
		WithArgs("2025-26").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, _, err = repo.AllocateTx(context.Background(), "order_rzp_1", april10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to lock sequence row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetGatewayPaymentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT gateway_payment_id FROM payments`).
			WithArgs("order_rzp_1").
			WillReturnRows(sqlmock.NewRows([]string{"gateway_payment_id"}).AddRow("pay_ABC123"))

		id, err := repo.GetGatewayPaymentID(ctx, "order_rzp_1")
		require.NoError(t, err)
		assert.Equal(t, "pay_ABC123", id)
	})

	t.Run("NullValue", func(t *testing.T) {
		mock.ExpectQuery(`SELECT gateway_payment_id FROM payments`).
			WithArgs("order_rzp_1").
			WillReturnRows(sqlmock.NewRows([]string{"gateway_payment_id"}).AddRow(nil))

		id, err := repo.GetGatewayPaymentID(ctx, "order_rzp_1")
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT gateway_payment_id FROM payments`).
			WithArgs("order_missing").
			WillReturnRows(sqlmock.NewRows([]string{"gateway_payment_id"}))

		_, err := repo.GetGatewayPaymentID(ctx, "order_missing")
		assert.ErrorIs(t, err, ErrPaymentMissing)
	})
}
