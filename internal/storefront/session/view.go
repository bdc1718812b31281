package session

import (
	"errors"
	"time"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNothingSelected = errors.New("no product selected")
)

// View is what the presentation layer renders.
type View struct {
	ID              string
	Items           []cart.Item
	Lines           int
	Units           int
	Total           int64
	Selected        *catalog.Product
	OrderInfo       orderform.OrderInfo
	Notice          string
	NoticeExpiresAt time.Time
}
