package domain

import "errors"

// Sentinel errors for the tracking domain. Use errors.Is() to check these.
var (
	// ErrConnectionNotFound indicates no connection record exists for the shop.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrInvalidShopDomain indicates the shop domain violates domain constraints.
	ErrInvalidShopDomain = errors.New("invalid shop domain")

	// ErrInvalidConnection indicates the connection record is missing required fields.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrMissingPayload indicates the event builder was invoked without a
	// trigger record. This is a wiring defect, not a runtime condition.
	ErrMissingPayload = errors.New("missing trigger payload")

	// ErrDeliveryRejected indicates the Conversions API rejected a submission.
	ErrDeliveryRejected = errors.New("conversion delivery rejected")
)
