package models

// Product is the authoritative catalog record for a purchasable item.
// Price and stock are always read from the store; values supplied by a
// client are never trusted.
type Product struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}
