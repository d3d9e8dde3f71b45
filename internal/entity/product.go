package entity

// Product is a row of the catalog lookup table. The back office never
// writes to it.
type Product struct {
	ID                 int     `json:"id"`
	ProductDescription string  `json:"product_description"`
	SKU                string  `json:"sku"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	Active             bool    `json:"active"`
}
