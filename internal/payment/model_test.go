package payment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPayment_Validate(t *testing.T) {
	p := Payment{OrderID: 1, Amount: decimal.RequireFromString("30.0"), Method: "cash", Status: " pending"}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.Method != MethodCash || p.Status != StatusPending {
		t.Fatalf("not normalized: %+v", p)
	}

	bad := []Payment{
		{OrderID: 0, Method: MethodCash, Status: StatusPending},
		{OrderID: 1, Amount: decimal.NewFromInt(-1), Method: MethodCash, Status: StatusPending},
		{OrderID: 1, Method: "CHEQUE", Status: StatusPending},
		{OrderID: 1, Method: MethodCard, Status: "REFUNDED"},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%+v: err=%v", p, err)
		}
	}
}

func TestParsePatch(t *testing.T) {
	p, err := ParsePatch([]byte(`{"status":"completed","amount":"45.50"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pay := Payment{ID: 1, OrderID: 2, Amount: decimal.NewFromInt(30), Method: MethodCash, Status: StatusPending}
	p.Apply(&pay)
	if pay.Status != StatusCompleted || !pay.Amount.Equal(decimal.RequireFromString("45.5")) || pay.OrderID != 2 {
		t.Fatalf("got %+v", pay)
	}

	for _, body := range []string{`{"status":"LOST"}`, `{"amount":-1}`, `{"method":3}`, `{"id":4}`, `{"note":"x"}`} {
		if _, err := ParsePatch([]byte(body)); err == nil {
			t.Fatalf("%s: expected error", body)
		}
	}
}
