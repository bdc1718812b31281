package checkout

import (
	"errors"
	"strings"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
)

var (
	ErrEmptyCart              = errors.New("empty cart")
	ErrIncompleteCustomerInfo = errors.New("incomplete customer info")
)

// IncompleteInfoError is the rejection for blank customer fields. Missing is
// captured at validation time, in form order.
type IncompleteInfoError struct {
	Missing []orderform.Field
}

func (e *IncompleteInfoError) Error() string {
	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = string(m)
	}
	return ErrIncompleteCustomerInfo.Error() + ": missing " + strings.Join(names, ", ")
}

func (e *IncompleteInfoError) Unwrap() error { return ErrIncompleteCustomerInfo }

// Reason codes reported to the presentation layer.
const (
	ReasonEmptyCart              = "empty_cart"
	ReasonIncompleteCustomerInfo = "incomplete_customer_info"
	ReasonInvalidQuantity        = "invalid_quantity"
	ReasonProductNotFound        = "product_not_found"
	ReasonUnknownField           = "unknown_field"
)

// Reason maps a rejection from any storefront component to its reason code.
// It returns "" for errors that are not rejections.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCart):
		return ReasonEmptyCart
	case errors.Is(err, ErrIncompleteCustomerInfo):
		return ReasonIncompleteCustomerInfo
	case errors.Is(err, cart.ErrInvalidQuantity):
		return ReasonInvalidQuantity
	case errors.Is(err, catalog.ErrProductNotFound):
		return ReasonProductNotFound
	case errors.Is(err, orderform.ErrUnknownField):
		return ReasonUnknownField
	default:
		return ""
	}
}
