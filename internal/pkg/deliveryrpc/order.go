// Package deliveryrpc defines the storefront.delivery.v1.OrderDelivery gRPC
// service that carries submitted orders from the storefront to the order
// service.
//
// Payloads travel as google.protobuf.Struct values so both ends share the
// protobuf wire format without a code generation step. Order and Ack are the
// Go views of those structs.
//
// Struct numbers are float64, so amounts are limited to [0, MaxAmount] where
// every integer is exact. Orders outside that range are refused on both ends.
package deliveryrpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// MaxAmount is the largest amount carried exactly by a Struct number.
const MaxAmount int64 = 1 << 53

var ErrAmountOutOfRange = errors.New("amount out of range")

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Item struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID          string    `json:"id"`
	Customer    Customer  `json:"customer"`
	Items       []Item    `json:"items"`
	Total       int64     `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Ack is the order service's answer. Duplicate is set when the order id was
// already delivered; the order is acknowledged but not recorded again.
type Ack struct {
	Accepted  bool `json:"accepted"`
	Duplicate bool `json:"duplicate"`
}

// CheckAmounts rejects totals and unit prices outside [0, MaxAmount].
func (o Order) CheckAmounts() error {
	if err := checkAmount("total", o.Total); err != nil {
		return err
	}
	for _, it := range o.Items {
		if err := checkAmount(fmt.Sprintf("unit price of product %d", it.ProductID), it.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func checkAmount(what string, v int64) error {
	if v < 0 || v > MaxAmount {
		return fmt.Errorf("deliveryrpc: %s %d: %w", what, v, ErrAmountOutOfRange)
	}
	return nil
}

func (o Order) ToStruct() (*structpb.Struct, error) {
	if err := o.CheckAmounts(); err != nil {
		return nil, err
	}
	return toStruct(o)
}

func OrderFromStruct(s *structpb.Struct) (Order, error) {
	var o Order
	err := fromStruct(s, &o)
	return o, err
}

func (a Ack) ToStruct() (*structpb.Struct, error) {
	return toStruct(a)
}

func AckFromStruct(s *structpb.Struct) (Ack, error) {
	var a Ack
	err := fromStruct(s, &a)
	return a, err
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("deliveryrpc: encode: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("deliveryrpc: encode: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("deliveryrpc: encode: %w", err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return fmt.Errorf("deliveryrpc: decode: empty payload")
	}
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("deliveryrpc: decode: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("deliveryrpc: decode: %w", err)
	}
	return nil
}
