package payment

import "time"

const (
	StatusPending   = "PENDING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

type Payment struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"order_id"`
	Amount          string    `json:"amount"` // NUMERIC -> string
	Status          string    `json:"status"`
	Provider        string    `json:"provider"`
	PaymentIntentID string    `json:"paymentIntentId"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Method is a checkout option shown by the storefront. The catalog is
// static; enabling providers is a config concern, not a DB one.
type Method struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Enabled  bool   `json:"enabled"`
}

func Methods() []Method {
	return []Method{
		{ID: "card", Type: "CARD", Provider: "STRIPE", Name: "Carte bancaire", Icon: "/icons/card.png", Enabled: true},
		{ID: "orange-money", Type: "MOBILE_MONEY", Provider: "ORANGE", Name: "Orange Money", Icon: "/icons/orange-money.png", Enabled: true},
		{ID: "mtn-money", Type: "MOBILE_MONEY", Provider: "MTN", Name: "MTN Mobile Money", Icon: "/icons/mtn-money.png", Enabled: true},
		{ID: "moov-money", Type: "MOBILE_MONEY", Provider: "MOOV", Name: "Moov Money", Icon: "/icons/moov-money.png", Enabled: true},
		{ID: "wave", Type: "MOBILE_MONEY", Provider: "WAVE", Name: "Wave", Icon: "/icons/wave.png", Enabled: true},
	}
}
