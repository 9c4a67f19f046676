package order

import "time"

// Order statuses. Any recognized status may follow any other; the
// storefront never enforced a transition graph and neither do we.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id,omitempty"`
	Status      string       `json:"status"`
	Total       string       `json:"total"`        // NUMERIC -> string
	DeliveryFee string       `json:"delivery_fee"` // NUMERIC -> string
	Items       []Item       `json:"items"`
	Address     *Address     `json:"shipping_address,omitempty"`
	Payment     *PaymentInfo `json:"payment,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Item is a purchase-time snapshot: price is the unit price when the
// order was placed, never re-read from the catalog.
type Item struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	PerfumeID string          `json:"perfume_id"`
	Quantity  int             `json:"quantity"`
	Price     string          `json:"price"`
	Perfume   *PerfumeSummary `json:"perfume,omitempty"`
}

// PerfumeSummary is the slice of the catalog entity embedded in
// populated order responses.
type PerfumeSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	ImageURL string `json:"image_url"`
}

type Address struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentInfo is the payment relation as seen from an order; the
// payment package owns the row itself.
type PaymentInfo struct {
	ID              string `json:"id"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
	Provider        string `json:"provider"`
	PaymentIntentID string `json:"paymentIntentId"`
}
