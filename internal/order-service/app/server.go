package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/mochi-storefront/internal/coordinator"
	"github.com/jcmexdev/mochi-storefront/internal/order-service/orderlog"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/cache"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors/constants"
)

type deliveryServer struct {
	deliveryrpc.UnimplementedOrderDeliveryServer
	cache    cache.Cache
	repo     orderlog.Repository
	claimTTL time.Duration
	now      func() time.Time
}

// NewDeliveryServer returns the OrderDelivery implementation. A nil cache
// disables duplicate detection; every delivery is then recorded.
func NewDeliveryServer(c cache.Cache, repo orderlog.Repository, claimTTL time.Duration) *deliveryServer {
	return &deliveryServer{
		cache:    c,
		repo:     repo,
		claimTTL: claimTTL,
		now:      time.Now,
	}
}

func (s *deliveryServer) Deliver(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	order, err := deliveryrpc.OrderFromStruct(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode order: %v", err)
	}
	if order.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "order id is required")
	}
	if len(order.Items) == 0 {
		return nil, status.Errorf(codes.InvalidArgument, "order %s has no items", order.ID)
	}
	if err := order.CheckAmounts(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "order %s: %v", order.ID, err)
	}

	reqID := interceptors.GetMetadataValue(ctx, constants.HeaderXRequestId)
	sessionID := interceptors.GetMetadataValue(ctx, constants.HeaderXSessionId)

	var steps []coordinator.Step
	if s.cache != nil {
		steps = append(steps, ClaimOrderStep(s.cache, order.ID, s.claimTTL))
	}
	steps = append(steps, RecordOrderStep(s.repo, order, s.now))

	ack := deliveryrpc.Ack{Accepted: true}
	if err := coordinator.NewOrchestrator(order.ID, steps).Start(ctx); err != nil {
		if !errors.Is(err, ErrDuplicateOrder) {
			slog.ErrorContext(ctx, "order delivery failed", "order_id", order.ID, "request_id", reqID, "error", err)
			return nil, status.Errorf(codes.Internal, "deliver order %s: %v", order.ID, err)
		}
		ack.Duplicate = true
	}

	slog.InfoContext(ctx, "order delivered",
		"order_id", order.ID,
		"duplicate", ack.Duplicate,
		"request_id", reqID,
		"session_id", sessionID,
	)
	return ack.ToStruct()
}
