package inventory

import (
	"encoding/json"
	"errors"

	"github.com/MikeMC777/perfulandia/internal/patch"
)

type SetProductID int64

func (SetProductID) Field() string          { return "product_id" }
func (u SetProductID) Apply(r *StockRecord) { r.ProductID = int64(u) }

type SetQuantityAvailable int

func (SetQuantityAvailable) Field() string          { return "quantity_available" }
func (u SetQuantityAvailable) Apply(r *StockRecord) { r.QuantityAvailable = int(u) }

type SetLocation string

func (SetLocation) Field() string          { return "location" }
func (u SetLocation) Apply(r *StockRecord) { r.Location = string(u) }

var patchSchema = patch.Schema[StockRecord]{
	"id": nil,
	"product_id": func(raw json.RawMessage) (patch.Update[StockRecord], error) {
		n, err := patch.Int(raw)
		if err == nil && n <= 0 {
			err = errors.New("must be positive")
		}
		return SetProductID(n), err
	},
	"quantity_available": func(raw json.RawMessage) (patch.Update[StockRecord], error) {
		n, err := patch.Int(raw)
		return SetQuantityAvailable(n), err
	},
	"location": func(raw json.RawMessage) (patch.Update[StockRecord], error) {
		s, err := patch.String(raw)
		return SetLocation(s), err
	},
}

// Patch is a validated set of field updates for a stock record.
type Patch []patch.Update[StockRecord]

func ParsePatch(body []byte) (Patch, error) {
	ups, err := patch.Decode(body, patchSchema)
	return Patch(ups), err
}

func (p Patch) Apply(r *StockRecord) { patch.Apply(r, p) }
