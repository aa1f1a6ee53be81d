package payment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("invalid payment")

type Method string

const (
	MethodCash     Method = "CASH"
	MethodCard     Method = "CARD"
	MethodTransfer Method = "TRANSFER"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodCash, MethodCard, MethodTransfer:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown method %q", ErrInvalid, s)
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
}

// Payment records money owed or received for one order.
type Payment struct {
	ID      int64           `json:"id"`
	OrderID int64           `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Method  Method          `json:"method"`
	Status  Status          `json:"status"`
}

// Validate normalizes method/status casing and checks every field.
func (p *Payment) Validate() error {
	if p.OrderID <= 0 {
		return fmt.Errorf("%w: order_id must be positive", ErrInvalid)
	}
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	m, err := ParseMethod(string(p.Method))
	if err != nil {
		return err
	}
	st, err := ParseStatus(string(p.Status))
	if err != nil {
		return err
	}
	p.Method, p.Status = m, st
	return nil
}

// CreatePaymentRequest payload of creation.
// swagger:model CreatePaymentRequest
type CreatePaymentRequest struct {
	OrderID int64           `json:"order_id" example:"1"`
	Amount  decimal.Decimal `json:"amount"   example:"30.00"`
	Method  Method          `json:"method"   example:"CASH"`
	Status  Status          `json:"status"   example:"PENDING"`
}

// ListResponse represents the paginated response of payments.
// swagger:model
type ListResponse struct {
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Payment `json:"items"`
}
