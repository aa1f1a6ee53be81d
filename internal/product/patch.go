package product

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/perfulandia/internal/patch"
)

type SetName string

func (SetName) Field() string      { return "name" }
func (u SetName) Apply(p *Product) { p.Name = string(u) }

type SetDescription string

func (SetDescription) Field() string      { return "description" }
func (u SetDescription) Apply(p *Product) { p.Description = string(u) }

type SetPrice decimal.Decimal

func (SetPrice) Field() string      { return "price" }
func (u SetPrice) Apply(p *Product) { p.Price = decimal.Decimal(u) }

var patchSchema = patch.Schema[Product]{
	"id":         nil,
	"created_at": nil,
	"updated_at": nil,
	"name": func(raw json.RawMessage) (patch.Update[Product], error) {
		s, err := patch.String(raw)
		s = strings.TrimSpace(s)
		if err == nil && s == "" {
			err = errors.New("must not be blank")
		}
		return SetName(s), err
	},
	"description": func(raw json.RawMessage) (patch.Update[Product], error) {
		s, err := patch.String(raw)
		return SetDescription(s), err
	},
	"price": func(raw json.RawMessage) (patch.Update[Product], error) {
		var d decimal.Decimal
		err := d.UnmarshalJSON(raw)
		if err == nil && d.IsNegative() {
			err = errors.New("must not be negative")
		}
		return SetPrice(d), err
	},
}

// Patch is a validated set of field updates for a product. Stock is not a
// product field; it is patched through the inventory service.
type Patch []patch.Update[Product]

func ParsePatch(body []byte) (Patch, error) {
	ups, err := patch.Decode(body, patchSchema)
	return Patch(ups), err
}

func (p Patch) Apply(pr *Product) { patch.Apply(pr, p) }
