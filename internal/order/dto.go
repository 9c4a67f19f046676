package order

// CreateOrderItem payload for one cart line.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	PerfumeID string `json:"perfume_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity" example:"2"`
	Price     string `json:"price" example:"1000"`
}

// CreateOrderAddress shipping address payload.
// swagger:model CreateOrderAddress
type CreateOrderAddress struct {
	Street     string `json:"street" example:"12 Rue des Jardins"`
	City       string `json:"city" example:"Abidjan"`
	State      string `json:"state" example:"Cocody"`
	PostalCode string `json:"postal_code" example:"00225"`
	Country    string `json:"country" example:"CI"`
}

// CreateOrderRequest checkout payload.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items           []CreateOrderItem  `json:"items"`
	ShippingAddress CreateOrderAddress `json:"shipping_address"`
	DeliveryFee     string             `json:"delivery_fee" example:"1000"`
}

// UpdateStatusRequest status patch payload.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"PROCESSING"`
}
