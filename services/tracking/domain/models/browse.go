package models

// BrowsePayload is the storefront beacon body for browse-type events
// (PageView, ViewContent, AddToCart). Value keeps the upstream
// decimal-string representation; the builder applies the same
// malformed-price-is-zero policy as for orders.
type BrowsePayload struct {
	Email      string
	ContentIDs []string
	Value      string
	Currency   string
}
