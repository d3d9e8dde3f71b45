package entity

import "time"

// Order statuses as shown in the back office.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusReady      = "Ready"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

var Statuses = []string{StatusNew, StatusInProgress, StatusReady, StatusCompleted, StatusCancelled}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID                int        `json:"id"`
	OrderID           string     `json:"order_id"` // short code, e.g. "ORD482913"
	CustomerFirstName string     `json:"customer_first_name"`
	CustomerLastName  string     `json:"customer_last_name"`
	Email             string     `json:"email"`
	PhoneNumber       string     `json:"phone_number"`
	OrderDate         string     `json:"order_date"`
	DuePickupDate     string     `json:"due_pickup_date"`
	DuePickupTime     string     `json:"due_pickup_time"`
	Special           string     `json:"special"`
	Status            string     `json:"status"`
	Total             float64    `json:"total"` // cached; can drift from line items
	OrderType         string     `json:"order_type"`
	OrderTaker        string     `json:"order_taker"`
	WebOrderID        int        `json:"web_order_id"`       // Shopify order number, 0 for in-store orders
	FulfillmentStatus string     `json:"fulfillment_status"` // Shopify-side state, sync-owned
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LineItems         []LineItem `json:"order_line_items"`
}

type LineItem struct {
	ID                 int     `json:"id"`
	OrderID            string  `json:"order_id"`
	LineItem           string  `json:"line_item"` // letter label: A, B, C, ...
	Type               string  `json:"type"`
	Size               string  `json:"size"`
	Color              string  `json:"color"`
	WritingNotes       string  `json:"writing_notes"`
	CakeQty            int     `json:"cake_qty"`
	UnitPrice          float64 `json:"unit_price"`
	Category           string  `json:"category"`
	ProductDescription string  `json:"product_description"`
}
