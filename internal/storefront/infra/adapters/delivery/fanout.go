package delivery

import (
	"context"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
)

// Fanout hands every order to each of its deliveries in order.
type Fanout []checkout.Delivery

var _ checkout.Delivery = Fanout(nil)

func (f Fanout) Deliver(ctx context.Context, s checkout.Summary) {
	for _, d := range f {
		if d != nil {
			d.Deliver(ctx, s)
		}
	}
}
