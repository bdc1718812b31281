// Package orderlog defines the append-only record of orders received from the
// storefront.
//
// Each delivered order becomes one immutable row carrying the full JSON
// payload plus the trace/span ids of the RPC that delivered it, so a row can
// be followed straight to its distributed trace.
package orderlog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
)

var ErrNotFound = errors.New("order log entry not found")

// Status of a received order.
type Status string

const (
	StatusReceived Status = "RECEIVED"
)

type Entry struct {
	OrderID      string
	Status       Status
	CustomerName string
	Phone        string
	ItemCount    int
	Total        int64
	// Payload is the JSON-serialised order as delivered.
	Payload     string
	TraceID     string
	SpanID      string
	SubmittedAt time.Time
	ReceivedAt  time.Time
}

// Repository is the port for persisting order log entries.
type Repository interface {
	// Save appends an entry; the log is never updated in place.
	Save(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, orderID string) (*Entry, error)
	List(ctx context.Context, limit int) ([]*Entry, error)
}

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both ids are empty when
// ctx carries no valid span.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds a RECEIVED entry for order with trace info taken from ctx.
func NewEntry(ctx context.Context, order deliveryrpc.Order, receivedAt time.Time) (*Entry, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, it := range order.Items {
		count += it.Quantity
	}

	ti := ExtractTraceInfo(ctx)
	return &Entry{
		OrderID:      order.ID,
		Status:       StatusReceived,
		CustomerName: order.Customer.Name,
		Phone:        order.Customer.Phone,
		ItemCount:    count,
		Total:        order.Total,
		Payload:      string(payload),
		TraceID:      ti.TraceID,
		SpanID:       ti.SpanID,
		SubmittedAt:  order.SubmittedAt.UTC(),
		ReceivedAt:   receivedAt.UTC(),
	}, nil
}
