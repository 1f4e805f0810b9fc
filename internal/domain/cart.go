package domain

// CartLine is a product snapshot taken when it was added, plus a quantity.
// Later catalog edits do not change the line.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity for the line
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
