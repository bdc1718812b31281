package httpx

import (
	"github.com/jcmexdev/mochi-storefront/internal/storefront/cart"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/catalog"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/money"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/orderform"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/session"
)

func mapProduct(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		PriceDisplay: money.FormatIDR(p.Price),
		Description:  p.Description,
		ImageRef:     p.ImageRef,
	}
}

func mapItems(items []cart.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = ItemResponse{
			ProductID:       it.ID,
			Name:            it.Name,
			Price:           it.Price,
			Quantity:        it.Quantity,
			Subtotal:        it.Subtotal(),
			SubtotalDisplay: money.FormatIDR(it.Subtotal()),
			ImageRef:        it.ImageRef,
		}
	}
	return out
}

func mapOrderInfo(o orderform.OrderInfo) OrderInfoResponse {
	return OrderInfoResponse{Name: o.Name, Phone: o.Phone, Address: o.Address}
}

func mapView(v session.View) SessionResponse {
	resp := SessionResponse{
		ID:           v.ID,
		Items:        mapItems(v.Items),
		Lines:        v.Lines,
		Units:        v.Units,
		Total:        v.Total,
		TotalDisplay: money.FormatIDR(v.Total),
		OrderInfo:    mapOrderInfo(v.OrderInfo),
	}
	if v.Selected != nil {
		p := mapProduct(*v.Selected)
		resp.Selected = &p
	}
	if v.Notice != "" {
		resp.Notice = &NoticeResponse{Message: v.Notice, ExpiresAt: v.NoticeExpiresAt}
	}
	return resp
}

func mapSummary(s checkout.Summary) OrderResponse {
	return OrderResponse{
		ID:           s.ID,
		Customer:     mapOrderInfo(s.Customer),
		Items:        mapItems(s.Items),
		Total:        s.Total,
		TotalDisplay: money.FormatIDR(s.Total),
		Timestamp:    s.Timestamp,
	}
}
