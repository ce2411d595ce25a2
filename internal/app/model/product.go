package model

// Product is a catalog entry. Immutable once loaded; the catalog feed is the
// source of truth. Stock is the maximum orderable quantity.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
	Stock    int     `json:"stock"`
	Rating   float64 `json:"rating"`
}
