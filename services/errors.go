package services

import "errors"

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrNotOwner               = errors.New("resource belongs to another user")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrMissingShippingAddress = errors.New("no shipping address on file")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidState           = errors.New("only pending orders can be cancelled")
	ErrInvalidTransition      = errors.New("illegal order status transition")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidRole            = errors.New("invalid role")
	ErrSelfRoleChange         = errors.New("cannot change your own role")
)
