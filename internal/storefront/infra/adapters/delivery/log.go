package delivery

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/money"
)

// LogDelivery writes each accepted order to a structured log.
type LogDelivery struct {
	logger *slog.Logger
}

var _ checkout.Delivery = (*LogDelivery)(nil)

// NewLogDelivery logs through logger, or slog.Default() when nil.
func NewLogDelivery(logger *slog.Logger) *LogDelivery {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDelivery{logger: logger}
}

func (d *LogDelivery) Deliver(ctx context.Context, s checkout.Summary) {
	d.logger.InfoContext(ctx, "order submitted",
		slog.String("order_id", s.ID),
		slog.Group("customer",
			slog.String("name", s.Customer.Name),
			slog.String("phone", s.Customer.Phone),
			slog.String("address", s.Customer.Address),
		),
		slog.Any("items", itemAttrs(s)),
		slog.Int64("total", s.Total),
		slog.String("total_display", money.FormatIDR(s.Total)),
		slog.Time("timestamp", s.Timestamp),
	)
}

type loggedItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

func itemAttrs(s checkout.Summary) []loggedItem {
	out := make([]loggedItem, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, loggedItem{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal(),
		})
	}
	return out
}
