package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CreatePayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	p := &Payment{
		OrderID:        42,
		GatewayOrderID: "order_rzp_1",
		Gateway:        "Razorpay",
		Amount:         decimal.RequireFromString("13400.50"),
		Currency:       "INR",
		Status:         StatusPending,
		PaymentMode:    "Online",
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO payments`).
			WithArgs(uint(42), "order_rzp_1", "Razorpay", p.Amount, "INR", StatusPending, "Online").
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, repo.CreatePayment(ctx, p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO payments`).
			WillReturnError(errors.New("db error"))

		err := repo.CreatePayment(ctx, p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert payment")
	})
}

func TestRepository_GetOrderRef(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT p.order_id, o.user_id\s+FROM payments p\s+JOIN orders o`).
			WithArgs("order_rzp_1").
			WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id"}).AddRow(42, 7))

		ref, err := repo.GetOrderRef(ctx, "order_rzp_1")
		require.NoError(t, err)
		assert.Equal(t, uint(42), ref.OrderID)
		assert.Equal(t, uint(7), ref.UserID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT p.order_id, o.user_id`).
			WithArgs("order_missing").
			WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_id"}))

		_, err := repo.GetOrderRef(ctx, "order_missing")
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestRepository_CompletePaymentTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE payments\s+SET gateway_payment_id = \$1, gateway_signature = \$2`).
			WithArgs("pay_ABC123", "sig", StatusCompleted, "order_rzp_1").
			WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
		mock.ExpectQuery(`UPDATE orders\s+SET payment_status = 'Paid', order_status = 'Processing'`).
			WithArgs("order_rzp_1", uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
		mock.ExpectCommit()

		ref, err := repo.CompletePaymentTx(ctx, "order_rzp_1", "pay_ABC123", "sig")
		require.NoError(t, err)
		assert.Equal(t, uint(42), ref.OrderID)
		assert.Equal(t, uint(7), ref.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownGatewayOrder", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE payments`).
			WithArgs("pay_ABC123", "sig", StatusCompleted, "order_missing").
			WillReturnRows(sqlmock.NewRows([]string{"order_id"}))
		mock.ExpectRollback()

		_, err := repo.CompletePaymentTx(ctx, "order_missing", "pay_ABC123", "sig")
		assert.ErrorIs(t, err, ErrPaymentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// Both updates share one transaction, so an order-side failure rolls
	// back the payment update too.
	t.Run("OrderUpdateFailureRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE payments`).
			WithArgs("pay_ABC123", "sig", StatusCompleted, "order_rzp_1").
			WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
		mock.ExpectQuery(`UPDATE orders`).
			WithArgs("order_rzp_1", uint(42)).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		_, err := repo.CompletePaymentTx(ctx, "order_rzp_1", "pay_ABC123", "sig")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to mark order paid")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_FailPaymentTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE payments\s+SET status = \$1`).
			WithArgs(StatusFailed, "order_rzp_1").
			WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(42))
		mock.ExpectExec(`UPDATE orders\s+SET payment_status = 'Failed', order_status = 'Cancelled'`).
			WithArgs(uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.FailPaymentTx(ctx, "order_rzp_1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownGatewayOrder", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE payments`).
			WithArgs(StatusFailed, "order_missing").
			WillReturnRows(sqlmock.NewRows([]string{"order_id"}))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.FailPaymentTx(ctx, "order_missing"), ErrPaymentNotFound)
	})
}
