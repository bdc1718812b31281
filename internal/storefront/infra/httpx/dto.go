package httpx

import "time"

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

type ChangeQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type SelectRequest struct {
	ProductID int64 `json:"product_id"`
}

// OrderInfoRequest patches only the fields that are present.
type OrderInfoRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ProductResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"price_display"`
	Description  string `json:"description"`
	ImageRef     string `json:"image_ref"`
}

type CatalogResponse struct {
	Currency string            `json:"currency"`
	Products []ProductResponse `json:"products"`
}

type ItemResponse struct {
	ProductID       int64  `json:"product_id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	Quantity        int    `json:"quantity"`
	Subtotal        int64  `json:"subtotal"`
	SubtotalDisplay string `json:"subtotal_display"`
	ImageRef        string `json:"image_ref"`
}

type OrderInfoResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type NoticeResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	ID           string            `json:"id"`
	Items        []ItemResponse    `json:"items"`
	Lines        int               `json:"lines"`
	Units        int               `json:"units"`
	Total        int64             `json:"total"`
	TotalDisplay string            `json:"total_display"`
	Selected     *ProductResponse  `json:"selected"`
	OrderInfo    OrderInfoResponse `json:"order_info"`
	Notice       *NoticeResponse   `json:"notice"`
}

type OrderResponse struct {
	ID           string            `json:"id"`
	Customer     OrderInfoResponse `json:"customer"`
	Items        []ItemResponse    `json:"items"`
	Total        int64             `json:"total"`
	TotalDisplay string            `json:"total_display"`
	Timestamp    time.Time         `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}
