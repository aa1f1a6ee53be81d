package inventory

import (
	"errors"
	"testing"

	"github.com/MikeMC777/perfulandia/internal/patch"
)

func TestParsePatch(t *testing.T) {
	p, err := ParsePatch([]byte(`{"quantity_available":4,"location":"Viña del Mar"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := StockRecord{ID: 3, ProductID: 1, QuantityAvailable: 10, Location: "Santiago"}
	p.Apply(&r)
	want := StockRecord{ID: 3, ProductID: 1, QuantityAvailable: 4, Location: "Viña del Mar"}
	if r != want {
		t.Fatalf("got %+v want %+v", r, want)
	}
}

func TestParsePatch_Rejects(t *testing.T) {
	for body, want := range map[string]error{
		`{"id":9}`:                      patch.ErrReadOnly,
		`{"cantidad":1}`:                patch.ErrUnknownField,
		`{"quantity_available":"many"}`: patch.ErrInvalidValue,
		`{"product_id":0}`:              patch.ErrInvalidValue,
		`{}`:                            patch.ErrEmpty,
	} {
		if _, err := ParsePatch([]byte(body)); !errors.Is(err, want) {
			t.Fatalf("%s: err=%v want %v", body, err, want)
		}
	}
}
