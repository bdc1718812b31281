package checkout

import (
	"context"
	"time"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
)

// Summary is the finalized order handed to delivery. It owns its item slice;
// nothing in the session refers to it after submission.
type Summary struct {
	ID        string              `json:"id"`
	Customer  orderform.OrderInfo `json:"customer"`
	Items     []cart.Item         `json:"items"`
	Total     int64               `json:"total"`
	Timestamp time.Time           `json:"timestamp"`
}

// Delivery receives accepted orders. Implementations must not block the
// caller on network I/O and report their own failures; the submitter does
// not look at the outcome.
type Delivery interface {
	Deliver(ctx context.Context, summary Summary)
}

// DeliveryFunc adapts a plain function to Delivery.
type DeliveryFunc func(ctx context.Context, summary Summary)

func (f DeliveryFunc) Deliver(ctx context.Context, summary Summary) { f(ctx, summary) }
