package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidAmount   = errors.New("total amount must be a positive number")
	ErrEmptyCart       = errors.New("checkout requires at least one cart item")
	ErrNoTrackingID    = errors.New("order has no tracking id")
)
