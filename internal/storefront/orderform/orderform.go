// Package orderform holds the customer details typed into the order form.
// Values are stored as entered; completeness is only checked at submission.
package orderform

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownField = errors.New("unknown order form field")

type Field string

const (
	FieldName    Field = "name"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
)

// OrderInfo is the customer contact block of an order.
type OrderInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Missing lists the fields that are empty or whitespace-only, in form order.
func (o OrderInfo) Missing() []Field {
	var missing []Field
	if strings.TrimSpace(o.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(o.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	if strings.TrimSpace(o.Address) == "" {
		missing = append(missing, FieldAddress)
	}
	return missing
}

func (o OrderInfo) Complete() bool {
	return len(o.Missing()) == 0
}

type Form struct {
	info OrderInfo
}

func New() *Form {
	return &Form{}
}

// Set overwrites one field.
func (f *Form) Set(field Field, value string) error {
	switch field {
	case FieldName:
		f.info.Name = value
	case FieldPhone:
		f.info.Phone = value
	case FieldAddress:
		f.info.Address = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Apply overwrites every field in values, or none of them if any field is
// unknown.
func (f *Form) Apply(values map[Field]string) error {
	next := *f
	for field, value := range values {
		if err := next.Set(field, value); err != nil {
			return err
		}
	}
	f.info = next.info
	return nil
}

func (f *Form) Info() OrderInfo { return f.info }

func (f *Form) Reset() { f.info = OrderInfo{} }
