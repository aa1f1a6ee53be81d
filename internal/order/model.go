package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order is one placed order for a single product. Customer and product are
// kept as the references the client sent; they are resolved to ids only
// while placing the order.
type Order struct {
	ID          int64           `json:"id"`
	CustomerRef string          `json:"customer_ref"`
	ProductRef  string          `json:"product_ref"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	Date        Date            `json:"date"`
}

const dateLayout = "2006-01-02"

// Date is a calendar day, rendered as YYYY-MM-DD.
type Date struct{ time.Time }

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = NewDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	*d = NewDate(t)
	return nil
}

// Ref is an identifier reference as sent by clients: either a JSON string
// ("1") or a JSON number (1). It is only resolved to an id by the
// orchestration.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("reference must be a string or a number")
	}
	*r = Ref(n.String())
	return nil
}

// ID resolves the reference to a positive integer id.
func (r Ref) ID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(string(r)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
