package model

import "time"

// Item is a single inventory record. Each item belongs to exactly one
// account; SKU is unique within that account, not globally.
type Item struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Category    string    `json:"category"`
	Quantity    int64     `json:"quantity"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemInput carries the client-supplied fields for create/update.
// Quantity and Price are pointers so that a missing field can be told
// apart from an explicit zero.
type ItemInput struct {
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Category    string   `json:"category"`
	Quantity    *int64   `json:"quantity"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
}
