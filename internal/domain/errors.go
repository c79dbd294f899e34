package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrBelowMinimum      = errors.New("below minimum order")
	ErrIllegalTransition = errors.New("illegal order status transition")
	ErrMenuItemNotFound  = errors.New("menu item not found")
)

type RejectReason string

const (
	RejectEmptyCart    RejectReason = "EMPTY_CART"
	RejectBelowMinimum RejectReason = "BELOW_MINIMUM"
)

// OrderRejectedError is the only condition checkout reports on its own.
type OrderRejectedError struct {
	Reason   RejectReason
	Subtotal Money
	Minimum  Money
}

func (e *OrderRejectedError) Error() string {
	if e.Reason == RejectBelowMinimum {
		return fmt.Sprintf("order rejected: subtotal %s is below minimum order %s", e.Subtotal, e.Minimum)
	}
	return "order rejected: cart is empty"
}

func (e *OrderRejectedError) Is(target error) bool {
	switch e.Reason {
	case RejectEmptyCart:
		return target == ErrEmptyCart
	case RejectBelowMinimum:
		return target == ErrBelowMinimum
	}
	return false
}
