// Package session bundles the per-visitor storefront state: cart, product
// selection, order form, toast notifier and order submitter. Every operation
// takes the session lock, so at most one mutation is in flight per visitor.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/notifier"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/selection"
)

// MessageItemAdded is shown after a product lands in the cart.
const MessageItemAdded = "Produk ditambahkan ke keranjang."

type Option func(*config)

type config struct {
	noticeDelay   time.Duration
	notifierOpts  []notifier.Option
	submitterOpts []checkout.Option
	now           func() time.Time
}

func WithNoticeDelay(d time.Duration) Option {
	return func(c *config) { c.noticeDelay = d }
}

func WithNotifierOptions(opts ...notifier.Option) Option {
	return func(c *config) { c.notifierOpts = append(c.notifierOpts, opts...) }
}

func WithSubmitterOptions(opts ...checkout.Option) Option {
	return func(c *config) { c.submitterOpts = append(c.submitterOpts, opts...) }
}

// WithClock sets the clock used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

type Session struct {
	mu sync.Mutex

	id        string
	catalog   *catalog.Catalog
	cart      *cart.Cart
	selection *selection.Selection
	form      *orderform.Form
	notifier  *notifier.Notifier
	submitter *checkout.Submitter

	now      func() time.Time
	lastSeen time.Time
}

func New(id string, cat *catalog.Catalog, delivery checkout.Delivery, opts ...Option) *Session {
	cfg := config{noticeDelay: notifier.DefaultDelay, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		id:        id,
		catalog:   cat,
		cart:      cart.New(),
		selection: selection.New(),
		form:      orderform.New(),
		notifier:  notifier.New(cfg.noticeDelay, cfg.notifierOpts...),
		submitter: checkout.NewSubmitter(delivery, cfg.submitterOpts...),
		now:       cfg.now,
		lastSeen:  cfg.now(),
	}
}

func (s *Session) ID() string { return s.id }

// AddToCart adds quantity units of the catalog product and raises the
// "added" notice.
func (s *Session) AddToCart(productID int64, quantity int) error {
	s.lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Get(productID)
	if err != nil {
		return err
	}
	return s.addLocked(p, quantity)
}

// AddSelected adds one unit of the product open in the detail view and
// closes the view.
func (s *Session) AddSelected() error {
	s.lock()
	defer s.mu.Unlock()

	p, ok := s.selection.Current()
	if !ok {
		return ErrNothingSelected
	}
	if err := s.addLocked(p, 1); err != nil {
		return err
	}
	s.selection.Clear()
	return nil
}

func (s *Session) addLocked(p catalog.Product, quantity int) error {
	if err := s.cart.Add(p, quantity); err != nil {
		return err
	}
	s.notifier.Notify(MessageItemAdded)
	return nil
}

func (s *Session) RemoveFromCart(productID int64) {
	s.lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
}

func (s *Session) ChangeQuantity(productID int64, quantity int) error {
	s.lock()
	defer s.mu.Unlock()
	return s.cart.ChangeQuantity(productID, quantity)
}

// Select opens the detail view for a catalog product.
func (s *Session) Select(productID int64) error {
	s.lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Get(productID)
	if err != nil {
		return err
	}
	s.selection.Select(p)
	return nil
}

func (s *Session) ClearSelection() {
	s.lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

func (s *Session) SetField(field orderform.Field, value string) error {
	s.lock()
	defer s.mu.Unlock()
	return s.form.Set(field, value)
}

// SetFields applies several order form fields as one change.
func (s *Session) SetFields(values map[orderform.Field]string) error {
	s.lock()
	defer s.mu.Unlock()
	return s.form.Apply(values)
}

// Submit places the order. See checkout.Submitter for the rules.
func (s *Session) Submit(ctx context.Context) (checkout.Summary, error) {
	s.lock()
	defer s.mu.Unlock()
	return s.submitter.Submit(ctx, s.cart, s.form)
}

// DismissNotice hides the toast before it expires.
func (s *Session) DismissNotice() {
	s.lock()
	defer s.mu.Unlock()
	s.notifier.Clear()
}

// Snapshot returns a render-ready copy of the session state.
func (s *Session) Snapshot() View {
	s.lock()
	defer s.mu.Unlock()

	v := View{
		ID:        s.id,
		Items:     s.cart.Items(),
		Lines:     s.cart.Len(),
		Units:     s.cart.Count(),
		Total:     s.cart.Total(),
		OrderInfo: s.form.Info(),
	}
	if p, ok := s.selection.Current(); ok {
		v.Selected = &p
	}
	if msg, ok := s.notifier.Message(); ok {
		v.Notice = msg
		v.NoticeExpiresAt = s.notifier.ExpiresAt()
	}
	return v
}

// LastSeen is when the session last handled an operation.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// close stops any pending notifier timer.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier.Clear()
}

func (s *Session) lock() {
	s.mu.Lock()
	s.lastSeen = s.now()
}
