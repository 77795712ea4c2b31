package invoice

import "errors"

var (
	ErrPaymentMissing  = errors.New("no payment row for gateway order id")
	ErrInvoiceNotFound = errors.New("invoice not found")
)
