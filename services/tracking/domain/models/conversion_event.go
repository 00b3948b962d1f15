package models

// EventName is the standardized kind of a conversion event.
type EventName string

// Conversion event kinds accepted by the Conversions API.
const (
	EventPurchase             EventName = "Purchase"
	EventInitiateCheckout     EventName = "InitiateCheckout"
	EventCompleteRegistration EventName = "CompleteRegistration"
	EventAddToCart            EventName = "AddToCart"
	EventViewContent          EventName = "ViewContent"
	EventPageView             EventName = "PageView"
)

// ActionSource is the channel a conversion event originated from.
type ActionSource string

// ActionSourceWebsite is the only channel this pipeline produces.
const ActionSourceWebsite ActionSource = "website"

// UserData carries the hashed identity attributes of the event subject plus
// opaque client tokens. Every identity field is the hex SHA-256 of its
// normalized value — never plaintext. Client IP, user agent, fbc, and fbp
// are passed through as supplied by the client surface.
type UserData struct {
	Email           string `json:"em,omitempty"`
	Phone           string `json:"ph,omitempty"`
	FirstName       string `json:"fn,omitempty"`
	LastName        string `json:"ln,omitempty"`
	City            string `json:"ct,omitempty"`
	State           string `json:"st,omitempty"`
	Zip             string `json:"zp,omitempty"`
	Country         string `json:"country,omitempty"`
	ExternalID      string `json:"external_id,omitempty"`
	ClientIPAddress string `json:"client_ip_address,omitempty"`
	ClientUserAgent string `json:"client_user_agent,omitempty"`
	FBC             string `json:"fbc,omitempty"`
	FBP             string `json:"fbp,omitempty"`
}

// Content is one line item inside CustomData.
type Content struct {
	ID        string  `json:"id"`
	Quantity  int     `json:"quantity"`
	ItemPrice float64 `json:"item_price,omitempty"`
}

// CustomData carries the commerce attributes of a conversion event.
type CustomData struct {
	Value       float64   `json:"value,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	ContentIDs  []string  `json:"content_ids,omitempty"`
	NumItems    int       `json:"num_items,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
	Contents    []Content `json:"contents,omitempty"`
}

// ConversionEvent is a single server-side conversion record in the wire
// shape the Conversions API ingests. Events are built once per webhook
// delivery, are immutable after construction, and are submitted at most once.
//
// EventID is the deduplication key: the receiving platform collapses
// server-side and client-side submissions that share it.
type ConversionEvent struct {
	EventName      EventName    `json:"event_name"`
	EventTime      int64        `json:"event_time"`
	ActionSource   ActionSource `json:"action_source"`
	EventSourceURL string       `json:"event_source_url,omitempty"`
	EventID        string       `json:"event_id"`
	UserData       UserData     `json:"user_data"`
	CustomData     *CustomData  `json:"custom_data,omitempty"`
}

// ClientContext is optional client-surface context attached to an event:
// network attributes plus the fbc/fbp tokens the pipeline passes through
// opaquely when the caller supplies them.
type ClientContext struct {
	IPAddress string
	UserAgent string
	SourceURL string
	FBC       string
	FBP       string
}
