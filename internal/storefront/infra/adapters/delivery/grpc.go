package delivery

import (
	"context"
	"fmt"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
)

// GRPCDelivery forwards orders to the order service.
type GRPCDelivery struct {
	client deliveryrpc.OrderDeliveryClient
}

var _ checkout.Delivery = (*GRPCDelivery)(nil)

func NewGRPCDelivery(client deliveryrpc.OrderDeliveryClient) *GRPCDelivery {
	return &GRPCDelivery{client: client}
}

func (d *GRPCDelivery) Deliver(ctx context.Context, s checkout.Summary) {
	dispatch(ctx, "grpc", s.ID, func(ctx context.Context) error {
		_, err := d.Send(ctx, s)
		return err
	})
}

// Send delivers synchronously and returns the order service's ack.
func (d *GRPCDelivery) Send(ctx context.Context, s checkout.Summary) (deliveryrpc.Ack, error) {
	in, err := ToOrder(s).ToStruct()
	if err != nil {
		return deliveryrpc.Ack{}, err
	}

	out, err := d.client.Deliver(interceptors.WithOutgoingMetadata(ctx), in)
	if err != nil {
		return deliveryrpc.Ack{}, fmt.Errorf("grpc Deliver: %w", err)
	}

	ack, err := deliveryrpc.AckFromStruct(out)
	if err != nil {
		return deliveryrpc.Ack{}, fmt.Errorf("grpc Deliver: %w", err)
	}
	if !ack.Accepted {
		return ack, fmt.Errorf("grpc Deliver: order %s not accepted", s.ID)
	}
	return ack, nil
}
