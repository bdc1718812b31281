// Package notifier implements the single-slot toast message shown after cart
// changes. A message clears itself after a fixed delay; a newer message
// replaces the current one and restarts the countdown.
package notifier

import (
	"sync"
	"time"
)

// DefaultDelay is how long a message stays visible.
const DefaultDelay = 2500 * time.Millisecond

// Timer is the handle returned by a Scheduler. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Notifier)

func WithScheduler(s Scheduler) Option {
	return func(n *Notifier) { n.schedule = s }
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// Notifier is safe for concurrent use: expiry callbacks run on timer
// goroutines.
type Notifier struct {
	mu       sync.Mutex
	delay    time.Duration
	schedule Scheduler
	now      func() time.Time

	message   string
	expiresAt time.Time
	timer     Timer
	// generation identifies the message a pending timer belongs to.
	generation uint64
}

func New(delay time.Duration, opts ...Option) *Notifier {
	if delay <= 0 {
		delay = DefaultDelay
	}
	n := &Notifier{
		delay:    delay,
		schedule: afterFunc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify shows message, cancelling the clear scheduled for any previous one.
func (n *Notifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopLocked()
	n.generation++
	gen := n.generation
	n.message = message
	n.expiresAt = n.now().Add(n.delay)
	n.timer = n.schedule(n.delay, func() { n.expire(gen) })
}

// Clear removes the current message, if any.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopLocked()
	n.generation++
	n.message = ""
	n.expiresAt = time.Time{}
}

func (n *Notifier) Message() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message, n.message != ""
}

// ExpiresAt is the zero time when no message is showing.
func (n *Notifier) ExpiresAt() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expiresAt
}

// expire clears the message only if it is still the one gen was issued for.
// Stop cannot recall a callback that already started, so a late timer from a
// replaced message lands here and is ignored.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.generation {
		return
	}
	n.timer = nil
	n.message = ""
	n.expiresAt = time.Time{}
}

func (n *Notifier) stopLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
