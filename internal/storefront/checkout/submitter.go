// Package checkout turns a cart and a filled order form into a submitted
// order.
//
// Submission runs Idle → Validating → Rejected|Accepted → Idle. Validation
// stops at the first failing rule: the cart must hold at least one item, then
// name, phone and address must all be non-blank. A rejection leaves cart and
// form untouched. An accepted order is snapshotted into a Summary, handed to
// the Delivery, and the cart and form are reset.
package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateRejected
	StateAccepted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateValidating:
		return "VALIDATING"
	case StateRejected:
		return "REJECTED"
	case StateAccepted:
		return "ACCEPTED"
	default:
		return "UNKNOWN"
	}
}

type Option func(*Submitter)

func WithClock(now func() time.Time) Option {
	return func(s *Submitter) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Submitter) { s.newID = gen }
}

// Submitter is owned by a single session and is not safe for concurrent use.
type Submitter struct {
	delivery Delivery
	now      func() time.Time
	newID    func() string
	state    State
}

func NewSubmitter(delivery Delivery, opts ...Option) *Submitter {
	s := &Submitter{
		delivery: delivery,
		now:      time.Now,
		newID:    uuid.NewString,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Submitter) State() State { return s.state }

// Submit validates c and f and, when they pass, delivers the order and resets
// both. The returned Summary is the value given to the Delivery.
func (s *Submitter) Submit(ctx context.Context, c *cart.Cart, f *orderform.Form) (Summary, error) {
	s.transition(ctx, StateValidating)

	if err := validate(c, f); err != nil {
		s.transition(ctx, StateRejected)
		slog.InfoContext(ctx, "order rejected", "reason", Reason(err), "error", err)
		s.transition(ctx, StateIdle)
		return Summary{}, err
	}

	s.transition(ctx, StateAccepted)
	summary := Summary{
		ID:        s.newID(),
		Customer:  f.Info(),
		Items:     c.Items(),
		Total:     c.Total(),
		Timestamp: s.now().UTC(),
	}

	if s.delivery != nil {
		s.delivery.Deliver(ctx, summary)
	}

	c.Reset()
	f.Reset()
	s.transition(ctx, StateIdle)

	slog.InfoContext(ctx, "order accepted", "order_id", summary.ID, "items", len(summary.Items), "total", summary.Total)
	return summary, nil
}

func validate(c *cart.Cart, f *orderform.Form) error {
	if c.IsEmpty() {
		return ErrEmptyCart
	}
	if missing := f.Info().Missing(); len(missing) > 0 {
		return &IncompleteInfoError{Missing: missing}
	}
	return nil
}

func (s *Submitter) transition(ctx context.Context, to State) {
	slog.DebugContext(ctx, "checkout state", "from", s.state.String(), "to", to.String())
	s.state = to
}
