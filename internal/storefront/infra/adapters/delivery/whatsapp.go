package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/money"
)

// DefaultWhatsAppNumber is the shop's contact line in international format.
const DefaultWhatsAppNumber = "628123456789"

// WhatsAppDelivery prepares a click-to-chat link carrying the order text so
// the shop admin can confirm payment with the customer. The link is logged.
type WhatsAppDelivery struct {
	number string
	logger *slog.Logger
}

var _ checkout.Delivery = (*WhatsAppDelivery)(nil)

// NewWhatsAppDelivery targets number; non-digits are stripped and an empty
// number falls back to DefaultWhatsAppNumber.
func NewWhatsAppDelivery(number string, logger *slog.Logger) *WhatsAppDelivery {
	number = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if number == "" {
		number = DefaultWhatsAppNumber
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WhatsAppDelivery{number: number, logger: logger}
}

func (d *WhatsAppDelivery) Deliver(ctx context.Context, s checkout.Summary) {
	d.logger.InfoContext(ctx, "whatsapp order link",
		"order_id", s.ID,
		"link", d.Link(s),
	)
}

// Link returns the wa.me URL with the order message prefilled.
func (d *WhatsAppDelivery) Link(s checkout.Summary) string {
	text := strings.ReplaceAll(url.QueryEscape(Message(s)), "+", "%20")
	return "https://wa.me/" + d.number + "?text=" + text
}

// Message renders the order as a plain chat message.
func Message(s checkout.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pesanan %s\n", s.ID)
	fmt.Fprintf(&b, "Nama: %s\n", s.Customer.Name)
	fmt.Fprintf(&b, "Telepon: %s\n", s.Customer.Phone)
	fmt.Fprintf(&b, "Alamat: %s\n", s.Customer.Address)
	b.WriteString("\n")
	for _, it := range s.Items {
		fmt.Fprintf(&b, "- %s x%d = %s\n", it.Name, it.Quantity, money.FormatIDR(it.Subtotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s", money.FormatIDR(s.Total))
	return b.String()
}
