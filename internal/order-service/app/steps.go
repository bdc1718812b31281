package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/mochi-storefront/internal/coordinator"
	"github.com/jcmexdev/mochi-storefront/internal/order-service/orderlog"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/cache"
	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
)

// ErrDuplicateOrder is returned by the claim step when the order id has
// already been delivered.
var ErrDuplicateOrder = errors.New("order already delivered")

const claimOperation = "deliver"

// ClaimOrderStep reserves the order id in the cache so a retried delivery is
// recognised. Compensation releases the claim so the storefront may retry.
func ClaimOrderStep(c cache.Cache, orderID string, ttl time.Duration) coordinator.Step {
	key := c.GenerateKey(claimOperation, orderID)
	return coordinator.StepFunc{
		StepName: "claim_order",
		ExecuteFn: func(ctx context.Context) error {
			ok, err := c.SetNX(ctx, key, "1", ttl)
			if err != nil {
				return fmt.Errorf("claim %s: %w", key, err)
			}
			if !ok {
				return ErrDuplicateOrder
			}
			return nil
		},
		CompensateFn: func(ctx context.Context) error {
			return c.Del(ctx, key)
		},
	}
}

// RecordOrderStep appends the order to the log. The log is append-only, so
// there is nothing to compensate.
func RecordOrderStep(repo orderlog.Repository, order deliveryrpc.Order, now func() time.Time) coordinator.Step {
	return coordinator.StepFunc{
		StepName: "record_order",
		ExecuteFn: func(ctx context.Context) error {
			entry, err := orderlog.NewEntry(ctx, order, now())
			if err != nil {
				return err
			}
			if err := repo.Save(ctx, entry); err != nil {
				return err
			}
			slog.InfoContext(ctx, "order recorded",
				"order_id", entry.OrderID,
				"items", entry.ItemCount,
				"total", entry.Total,
			)
			return nil
		},
	}
}
