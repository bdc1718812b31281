package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/notifier"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/session"
)

type heldTimer struct{ fn func() }

func (heldTimer) Stop() bool { return true }

// holdTimers keeps notices visible until the test fires them.
func holdTimers(fired *[]func()) notifier.Scheduler {
	return func(_ time.Duration, f func()) notifier.Timer {
		*fired = append(*fired, f)
		return heldTimer{fn: f}
	}
}

type sink struct {
	mu        sync.Mutex
	summaries []checkout.Summary
}

func (s *sink) Deliver(_ context.Context, summary checkout.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
}

func newSession(t *testing.T, d checkout.Delivery) (*session.Session, *[]func()) {
	t.Helper()
	var timers []func()
	s := session.New("s-1", catalog.Default(), d,
		session.WithNotifierOptions(notifier.WithScheduler(holdTimers(&timers))),
	)
	return s, &timers
}

func TestAddToCart_RaisesNotice(t *testing.T) {
	s, timers := newSession(t, nil)

	require.NoError(t, s.AddToCart(1, 1))

	v := s.Snapshot()
	assert.Equal(t, session.MessageItemAdded, v.Notice)
	assert.False(t, v.NoticeExpiresAt.IsZero())
	require.Len(t, *timers, 1)

	(*timers)[0]()
	assert.Empty(t, s.Snapshot().Notice)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	s, timers := newSession(t, nil)

	err := s.AddToCart(99, 1)

	require.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Empty(t, s.Snapshot().Items)
	assert.Empty(t, *timers)
}

func TestAddToCart_InvalidQuantityRaisesNoNotice(t *testing.T) {
	s, timers := newSession(t, nil)

	err := s.AddToCart(1, 0)

	require.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Empty(t, s.Snapshot().Notice)
	assert.Empty(t, *timers)
}

func TestSelection_AddSelectedClosesDetail(t *testing.T) {
	s, _ := newSession(t, nil)

	require.ErrorIs(t, s.AddSelected(), session.ErrNothingSelected)
	require.ErrorIs(t, s.Select(42), catalog.ErrProductNotFound)

	require.NoError(t, s.Select(3))
	v := s.Snapshot()
	require.NotNil(t, v.Selected)
	assert.Equal(t, int64(3), v.Selected.ID)
	assert.Empty(t, v.Items, "viewing a product does not touch the cart")

	require.NoError(t, s.AddSelected())
	v = s.Snapshot()
	assert.Nil(t, v.Selected)
	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(3), v.Items[0].ID)
	assert.Equal(t, session.MessageItemAdded, v.Notice)

	require.NoError(t, s.Select(1))
	s.ClearSelection()
	s.ClearSelection()
	assert.Nil(t, s.Snapshot().Selected)
}

// Walks the reference flow: add, re-add, reject zero, add another, remove,
// reject incomplete info, then submit.
func TestSession_ReferenceScenario(t *testing.T) {
	d := &sink{}
	s, _ := newSession(t, d)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(1, 1))
	assert.Equal(t, int64(250000), s.Snapshot().Total)

	require.NoError(t, s.AddToCart(1, 1))
	v := s.Snapshot()
	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Items[0].Quantity)
	assert.Equal(t, int64(500000), v.Total)

	require.ErrorIs(t, s.ChangeQuantity(1, 0), cart.ErrInvalidQuantity)
	assert.Equal(t, 2, s.Snapshot().Items[0].Quantity)

	require.NoError(t, s.AddToCart(2, 1))
	s.RemoveFromCart(1)
	v = s.Snapshot()
	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(2), v.Items[0].ID)
	assert.Equal(t, int64(180000), v.Total)

	require.NoError(t, s.SetField(orderform.FieldName, "Sari"))
	require.NoError(t, s.SetField(orderform.FieldAddress, "Jl. Merdeka 1"))
	_, err := s.Submit(ctx)
	require.ErrorIs(t, err, checkout.ErrIncompleteCustomerInfo)
	assert.Len(t, s.Snapshot().Items, 1)

	require.NoError(t, s.SetField(orderform.FieldPhone, "0812"))
	summary, err := s.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(2), summary.Items[0].ID)
	assert.Equal(t, 1, summary.Items[0].Quantity)
	assert.Equal(t, int64(180000), summary.Total)

	v = s.Snapshot()
	assert.Empty(t, v.Items)
	assert.Zero(t, v.Total)
	assert.Equal(t, orderform.OrderInfo{}, v.OrderInfo)
	require.Len(t, d.summaries, 1)
	assert.Equal(t, summary.ID, d.summaries[0].ID)
}

func TestSnapshot_Counts(t *testing.T) {
	s, _ := newSession(t, nil)
	require.NoError(t, s.AddToCart(1, 2))
	require.NoError(t, s.AddToCart(4, 3))

	v := s.Snapshot()
	assert.Equal(t, "s-1", v.ID)
	assert.Equal(t, 2, v.Lines)
	assert.Equal(t, 5, v.Units)
	assert.Equal(t, int64(2*250000+3*60000), v.Total)
}

func TestDismissNotice(t *testing.T) {
	s, _ := newSession(t, nil)
	require.NoError(t, s.AddToCart(1, 1))

	s.DismissNotice()
	s.DismissNotice()

	assert.Empty(t, s.Snapshot().Notice)
}

func TestSession_ConcurrentAdds(t *testing.T) {
	s := session.New("s-2", catalog.Default(), nil, session.WithNoticeDelay(time.Hour))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddToCart(1, 1)
		}()
	}
	wg.Wait()

	v := s.Snapshot()
	require.Len(t, v.Items, 1)
	assert.Equal(t, 50, v.Items[0].Quantity)
	s.DismissNotice()
}

func TestSession_SetFieldsIsAtomicAgainstSubmit(t *testing.T) {
	all := []orderform.Field{orderform.FieldName, orderform.FieldPhone, orderform.FieldAddress}

	for i := 0; i < 50; i++ {
		s := session.New("s-3", catalog.Default(), nil, session.WithNoticeDelay(time.Hour))
		require.NoError(t, s.AddToCart(1, 1))

		var (
			wg        sync.WaitGroup
			submitErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SetFields(map[orderform.Field]string{
				orderform.FieldName:    "Sari",
				orderform.FieldPhone:   "0812",
				orderform.FieldAddress: "Jl. Merdeka 1",
			})
		}()
		go func() {
			defer wg.Done()
			_, submitErr = s.Submit(context.Background())
		}()
		wg.Wait()

		if submitErr != nil {
			var incomplete *checkout.IncompleteInfoError
			require.ErrorAs(t, submitErr, &incomplete)
			assert.Equal(t, all, incomplete.Missing)
		}
		s.DismissNotice()
	}
}
