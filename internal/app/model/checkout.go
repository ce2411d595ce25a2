package model

// CheckoutProfile is the remembered buyer profile, persisted independently of
// the cart and used to prefill the checkout form on the next visit.
type CheckoutProfile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Complete reports whether every checkout field has been filled in.
func (p CheckoutProfile) Complete() bool {
	return p.Name != "" && p.Email != "" && p.Address != "" && p.City != ""
}

// OrderConfirmation is returned once the simulated payment settles.
type OrderConfirmation struct {
	OrderID    string  `json:"order_id"`
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}
