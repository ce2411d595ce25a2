package model

// CartItem pairs a product snapshot with an ordered quantity. The snapshot is
// denormalized at add-time: a later catalog change does not retroactively
// update persisted cart items.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is derived, never stored.
func (ci CartItem) Subtotal() float64 {
	return float64(ci.Quantity) * ci.Product.Price
}

// CartSnapshot is the read-only view handed to rendering collaborators.
type CartSnapshot struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}
