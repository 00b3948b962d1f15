package models

// Upstream webhook payloads are loosely typed: every field is optional and
// anything beyond what the event builder extracts is ignored. Shapes follow
// the commerce platform's order/checkout/customer webhook bodies.

// LineItem is one line of an order or checkout payload. Identifier
// preference when extracting content ids: variant, then product, then the
// line item's own id.
type LineItem struct {
	ID        int64  `json:"id,omitempty"`
	VariantID int64  `json:"variant_id,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Price     string `json:"price,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Address is the customer address sub-record of a payload.
type Address struct {
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

// CustomerRef is the customer sub-record embedded in order and checkout payloads.
type CustomerRef struct {
	ID             int64    `json:"id,omitempty"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	FirstName      string   `json:"first_name,omitempty"`
	LastName       string   `json:"last_name,omitempty"`
	DefaultAddress *Address `json:"default_address,omitempty"`
}

// OrderPayload is the order-created webhook body.
type OrderPayload struct {
	ID          int64        `json:"id"`
	OrderNumber int64        `json:"order_number,omitempty"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	TotalPrice  string       `json:"total_price,omitempty"`
	Currency    string       `json:"currency,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	LineItems   []LineItem   `json:"line_items,omitempty"`
	Customer    *CustomerRef `json:"customer,omitempty"`
	OrderURL    string       `json:"order_status_url,omitempty"`
}

// CheckoutPayload is the checkout-created webhook body.
type CheckoutPayload struct {
	ID          int64        `json:"id"`
	Token       string       `json:"token,omitempty"`
	Email       string       `json:"email,omitempty"`
	TotalPrice  string       `json:"total_price,omitempty"`
	Currency    string       `json:"currency,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
	LineItems   []LineItem   `json:"line_items,omitempty"`
	Customer    *CustomerRef `json:"customer,omitempty"`
	CheckoutURL string       `json:"abandoned_checkout_url,omitempty"`
}

// CustomerPayload is the customer-created webhook body.
type CustomerPayload struct {
	ID             int64    `json:"id"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	FirstName      string   `json:"first_name,omitempty"`
	LastName       string   `json:"last_name,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
	DefaultAddress *Address `json:"default_address,omitempty"`
}
