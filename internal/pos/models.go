package pos

import "time"

type OrderType string

const (
	TypeDineIn   OrderType = "dine_in"
	TypeTakeaway OrderType = "takeaway"
)

// Product is the catalog snapshot consumed at cart-build time. Later catalog
// edits never touch committed orders: name and price are copied onto the line
// item when it is added.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	Variants    []string  `json:"variants,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"` // snapshot
	Variant        string `json:"variant,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"` // snapshot
	Notes          string `json:"notes,omitempty"`
}

// Order is immutable after creation except for its status.
type Order struct {
	ID            string      `json:"id"`
	Number        int64       `json:"number"` // unique, strictly increasing
	Type          OrderType   `json:"type"`
	TableID       string      `json:"table_id,omitempty"` // set iff dine_in
	TableName     string      `json:"table_name,omitempty"`
	CustomerName  string      `json:"customer_name,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Items         []OrderItem `json:"items"`
	SubtotalCents int64       `json:"subtotal_cents"`
	TaxCents      int64       `json:"tax_cents"`
	TotalCents    int64       `json:"total_cents"`
	Status        Status      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderDraft is what a cart commit hands to the lifecycle manager. Identity,
// number, totals and timestamps are assigned on create.
type OrderDraft struct {
	Type         OrderType
	TableID      string
	CustomerName string
	Notes        string
	Items        []OrderItem
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
)

// Table carries only static registry data; occupancy is derived, see tables.go.
type Table struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type Settings struct {
	Currency   string `json:"currency"`
	TaxRateBps int    `json:"tax_rate_bps"` // 1000 = 10%
}
