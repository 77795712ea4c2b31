package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found for gateway order id")
	ErrInvalidSignature = errors.New("invalid payment signature")
)
