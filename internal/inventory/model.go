package inventory

// StockRecord is the inventory row for one product at one location.
type StockRecord struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	QuantityAvailable int    `json:"quantity_available"`
	Location          string `json:"location"`
}

// CreateStockRequest payload of creation.
// swagger:model CreateStockRequest
type CreateStockRequest struct {
	ProductID         int64  `json:"product_id"         binding:"required,gt=0" example:"1"`
	QuantityAvailable int    `json:"quantity_available" example:"10"`
	Location          string `json:"location"           example:"Santiago centro"`
}

// UpdateStockRequest replaces the quantity and location of a product's record.
// swagger:model UpdateStockRequest
type UpdateStockRequest struct {
	QuantityAvailable *int   `json:"quantity_available" binding:"required"`
	Location          string `json:"location"`
}

// ListResponse represents the paginated response of stock records.
// swagger:model
type ListResponse struct {
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Items  []StockRecord `json:"items"`
}
