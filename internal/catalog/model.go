package catalog

import "time"

type Perfume struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"` // NUMERIC -> string
	ImageURL    string    `json:"image_url"`
	Brand       string    `json:"brand"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CategoryID  string    `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListFilter narrows the perfume listing; zero values mean "no filter".
type ListFilter struct {
	Search     string
	CategoryID string
	Limit      int
	Offset     int
}
