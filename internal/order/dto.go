package order

import "github.com/shopspring/decimal"

// PlaceOrderRequest payload of order placement. customer_ref and product_ref
// may be sent as strings or numbers.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	CustomerRef Ref             `json:"customer_ref" swaggertype:"string" example:"1"`
	ProductRef  Ref             `json:"product_ref"  swaggertype:"string" example:"1"`
	Quantity    int             `json:"quantity"     example:"3"`
	Total       decimal.Decimal `json:"total"        swaggertype:"string" example:"30.0"`
	// defaults to today
	Date *Date `json:"date,omitempty" swaggertype:"string" example:"2025-06-01"`
}

func (r PlaceOrderRequest) Input() PlaceOrderInput {
	in := PlaceOrderInput{
		CustomerRef: string(r.CustomerRef),
		ProductRef:  string(r.ProductRef),
		Quantity:    r.Quantity,
		Total:       r.Total,
	}
	if r.Date != nil {
		in.Date = r.Date.Time
	}
	return in
}

// UpdateOrderRequest replaces every field of an order, date included.
// swagger:model UpdateOrderRequest
type UpdateOrderRequest struct {
	CustomerRef Ref             `json:"customer_ref" binding:"required"       swaggertype:"string"`
	ProductRef  Ref             `json:"product_ref"  binding:"required"       swaggertype:"string"`
	Quantity    int             `json:"quantity"     binding:"required,gt=0"`
	Total       decimal.Decimal `json:"total"        swaggertype:"string"`
	Date        Date            `json:"date"         swaggertype:"string"`
}

// ListResponse represents the paginated response of orders.
// swagger:model
type ListResponse struct {
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Items  []Order `json:"items"`
}

// InsufficientStockResponse is the 409 body of a rejected placement.
// swagger:model
type InsufficientStockResponse struct {
	Error     string `json:"error"`
	ProductID int64  `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockResponse is the body of the stock-of-product helper.
// swagger:model
type StockResponse struct {
	ProductID         int64 `json:"product_id"`
	QuantityAvailable int   `json:"quantity_available"`
}
