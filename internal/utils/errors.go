package utils

import "errors"

// Common application errors used across services.
var (
	ErrEntryNotFound    = errors.New("ENTRY_NOT_FOUND")
	ErrCartNotFound     = errors.New("CART_NOT_FOUND")
	ErrCartEmpty        = errors.New("CART_EMPTY")
	ErrPriceOutOfRange  = errors.New("PRICE_OUT_OF_RANGE")
	ErrTotalsOverflow   = errors.New("TOTALS_OUT_OF_RANGE")
	ErrCartBusy         = errors.New("CART_BUSY")
	ErrInvalidCartToken = errors.New("INVALID_CART_TOKEN")
	ErrInvalidBilling   = errors.New("INVALID_BILLING")
)
