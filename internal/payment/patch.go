package payment

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/perfulandia/internal/patch"
)

type SetOrderID int64

func (SetOrderID) Field() string      { return "order_id" }
func (u SetOrderID) Apply(p *Payment) { p.OrderID = int64(u) }

type SetAmount decimal.Decimal

func (SetAmount) Field() string      { return "amount" }
func (u SetAmount) Apply(p *Payment) { p.Amount = decimal.Decimal(u) }

type SetMethod Method

func (SetMethod) Field() string      { return "method" }
func (u SetMethod) Apply(p *Payment) { p.Method = Method(u) }

type SetStatus Status

func (SetStatus) Field() string      { return "status" }
func (u SetStatus) Apply(p *Payment) { p.Status = Status(u) }

var patchSchema = patch.Schema[Payment]{
	"id": nil,
	"order_id": func(raw json.RawMessage) (patch.Update[Payment], error) {
		n, err := patch.Int(raw)
		if err == nil && n <= 0 {
			err = errors.New("must be positive")
		}
		return SetOrderID(n), err
	},
	"amount": func(raw json.RawMessage) (patch.Update[Payment], error) {
		var d decimal.Decimal
		err := d.UnmarshalJSON(raw)
		if err == nil && d.IsNegative() {
			err = errors.New("must not be negative")
		}
		return SetAmount(d), err
	},
	"method": func(raw json.RawMessage) (patch.Update[Payment], error) {
		s, err := patch.String(raw)
		if err != nil {
			return nil, err
		}
		m, err := ParseMethod(s)
		return SetMethod(m), err
	},
	"status": func(raw json.RawMessage) (patch.Update[Payment], error) {
		s, err := patch.String(raw)
		if err != nil {
			return nil, err
		}
		st, err := ParseStatus(s)
		return SetStatus(st), err
	},
}

// Patch is a validated set of field updates for a payment.
type Patch []patch.Update[Payment]

func ParsePatch(body []byte) (Patch, error) {
	ups, err := patch.Decode(body, patchSchema)
	return Patch(ups), err
}

func (p Patch) Apply(pay *Payment) { patch.Apply(pay, p) }
