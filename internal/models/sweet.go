package models

import "time"

type Sweet struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateSweetRequest carries the fields for a new sweet. Price and quantity
// are pointers so a missing field can be told apart from an explicit zero.
type CreateSweetRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *float64 `json:"quantity"`
}

// UpdateSweetRequest is a partial update: every field is optional and only
// the supplied ones are validated and applied.
type UpdateSweetRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *float64 `json:"quantity"`
}

// SweetPatch is the validated form of an UpdateSweetRequest, ready to be
// applied by a store.
type SweetPatch struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// SweetFilter holds the optional search predicates. Supplied predicates are
// combined with AND; results are always ordered by name ascending.
type SweetFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

type PurchaseRequest struct {
	Quantity *float64 `json:"quantity"`
}

type RestockRequest struct {
	Quantity *float64 `json:"quantity"`
}

type StockResponse struct {
	Message string `json:"message"`
	Sweet   *Sweet `json:"sweet"`
}
