package order

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/perfulandia/internal/patch"
)

type SetCustomerRef string

func (SetCustomerRef) Field() string    { return "customer_ref" }
func (u SetCustomerRef) Apply(o *Order) { o.CustomerRef = string(u) }

type SetProductRef string

func (SetProductRef) Field() string    { return "product_ref" }
func (u SetProductRef) Apply(o *Order) { o.ProductRef = string(u) }

type SetQuantity int

func (SetQuantity) Field() string    { return "quantity" }
func (u SetQuantity) Apply(o *Order) { o.Quantity = int(u) }

type SetTotal decimal.Decimal

func (SetTotal) Field() string    { return "total" }
func (u SetTotal) Apply(o *Order) { o.Total = decimal.Decimal(u) }

type SetDate Date

func (SetDate) Field() string    { return "date" }
func (u SetDate) Apply(o *Order) { o.Date = Date(u) }

func refDecoder(build func(string) patch.Update[Order]) patch.Decoder[Order] {
	return func(raw json.RawMessage) (patch.Update[Order], error) {
		var r Ref
		if err := r.UnmarshalJSON(raw); err != nil {
			return nil, err
		}
		if r == "" {
			return nil, errors.New("must not be empty")
		}
		return build(string(r)), nil
	}
}

var patchSchema = patch.Schema[Order]{
	"id":           nil,
	"customer_ref": refDecoder(func(s string) patch.Update[Order] { return SetCustomerRef(s) }),
	"product_ref":  refDecoder(func(s string) patch.Update[Order] { return SetProductRef(s) }),
	"quantity": func(raw json.RawMessage) (patch.Update[Order], error) {
		n, err := patch.Int(raw)
		if err == nil && n <= 0 {
			err = errors.New("must be positive")
		}
		return SetQuantity(n), err
	},
	"total": func(raw json.RawMessage) (patch.Update[Order], error) {
		var d decimal.Decimal
		err := d.UnmarshalJSON(raw)
		if err == nil && d.IsNegative() {
			err = errors.New("must not be negative")
		}
		return SetTotal(d), err
	},
	"date": func(raw json.RawMessage) (patch.Update[Order], error) {
		var d Date
		err := d.UnmarshalJSON(raw)
		return SetDate(d), err
	},
}

// Patch is a validated set of field updates for an order. Patching never
// re-runs the placement checks.
type Patch []patch.Update[Order]

func ParsePatch(body []byte) (Patch, error) {
	ups, err := patch.Decode(body, patchSchema)
	return Patch(ups), err
}

func (p Patch) Apply(o *Order) { patch.Apply(o, p) }
