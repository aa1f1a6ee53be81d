package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. Stock is not kept here; the inventory service
// owns it.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// total items found
	Items []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string           `json:"name"        binding:"required" example:"Eau de Parfum 100ml"`
	Description string           `json:"description" example:"Notas de vainilla"`
	Price       *decimal.Decimal `json:"price"       binding:"required" example:"49990"`
}

// UpdateProductRequest payload of partial update. Omitted fields keep their
// value.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}
