package weborders

// Shopify admin API wire shapes, trimmed to the fields the sync
// reads. Money amounts arrive as strings.

type shopifyOrder struct {
	OrderNumber       int                `json:"order_number"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at"`
	Note              string             `json:"note"`
	ContactEmail      string             `json:"contact_email"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	TotalPrice        string             `json:"total_price"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	Customer          shopifyCustomer    `json:"customer"`
	NoteAttributes    []shopifyAttribute `json:"note_attributes"`
	LineItems         []shopifyLineItem  `json:"line_items"`
}

type shopifyCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type shopifyAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type shopifyLineItem struct {
	Title        string             `json:"title"`
	VariantTitle string             `json:"variant_title"`
	Quantity     int                `json:"quantity"`
	Price        string             `json:"price"`
	Properties   []shopifyAttribute `json:"properties"`
}
