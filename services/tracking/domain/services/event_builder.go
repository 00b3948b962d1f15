package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	trackingdomain "github.com/ghuser/signalbridge/services/tracking/domain"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

// BuildOptions carries the optional inputs of an event build: a dedup key
// override and client-surface context. The zero value is valid.
type BuildOptions struct {
	// DedupKey overrides the generated key. Callers that need exact
	// dedup across webhook redeliveries must set it.
	DedupKey string
	Client   models.ClientContext
}

// BuildFromOrder maps an order-created payload to a Purchase event.
// Optional upstream fields are carried over only when present; a malformed
// price never blocks the build. Returns ErrMissingPayload for a nil order.
func BuildFromOrder(order *models.OrderPayload, opts BuildOptions) (*models.ConversionEvent, error) {
	if order == nil {
		return nil, fmt.Errorf("order: %w", trackingdomain.ErrMissingPayload)
	}

	orderID := strconv.FormatInt(order.ID, 10)
	event := newEvent(models.EventPurchase, "order", orderID, order.CreatedAt, opts)
	if event.EventSourceURL == "" {
		event.EventSourceURL = order.OrderURL
	}

	event.UserData.Email = hashIfPresent(firstNonEmpty(order.Email, customerEmail(order.Customer)))
	event.UserData.Phone = hashIfPresent(firstNonEmpty(order.Phone, customerPhone(order.Customer)))
	applyCustomer(&event.UserData, order.Customer)

	custom := commerceData(order.LineItems, order.TotalPrice, order.Currency)
	custom.OrderID = orderID
	event.CustomData = custom

	return event, nil
}

// BuildFromCheckout maps a checkout-created payload to an InitiateCheckout event.
func BuildFromCheckout(checkout *models.CheckoutPayload, opts BuildOptions) (*models.ConversionEvent, error) {
	if checkout == nil {
		return nil, fmt.Errorf("checkout: %w", trackingdomain.ErrMissingPayload)
	}

	checkoutID := checkout.Token
	if checkoutID == "" {
		checkoutID = strconv.FormatInt(checkout.ID, 10)
	}
	event := newEvent(models.EventInitiateCheckout, "checkout", checkoutID, checkout.CreatedAt, opts)
	if event.EventSourceURL == "" {
		event.EventSourceURL = checkout.CheckoutURL
	}

	event.UserData.Email = hashIfPresent(firstNonEmpty(checkout.Email, customerEmail(checkout.Customer)))
	event.UserData.Phone = hashIfPresent(customerPhone(checkout.Customer))
	applyCustomer(&event.UserData, checkout.Customer)

	event.CustomData = commerceData(checkout.LineItems, checkout.TotalPrice, checkout.Currency)

	return event, nil
}

// BuildFromCustomer maps a customer-created payload to a CompleteRegistration event.
func BuildFromCustomer(customer *models.CustomerPayload, opts BuildOptions) (*models.ConversionEvent, error) {
	if customer == nil {
		return nil, fmt.Errorf("customer: %w", trackingdomain.ErrMissingPayload)
	}

	event := newEvent(models.EventCompleteRegistration, "customer", strconv.FormatInt(customer.ID, 10), customer.CreatedAt, opts)

	event.UserData.Email = hashIfPresent(customer.Email)
	event.UserData.Phone = hashIfPresent(customer.Phone)
	event.UserData.FirstName = hashIfPresent(customer.FirstName)
	event.UserData.LastName = hashIfPresent(customer.LastName)
	if customer.ID != 0 {
		event.UserData.ExternalID = HashField(strconv.FormatInt(customer.ID, 10))
	}
	applyAddress(&event.UserData, customer.DefaultAddress)

	return event, nil
}

// BuildBrowse maps a storefront beacon (page view, view content, add to cart)
// to a conversion event. The beacon has no upstream entity, so generated
// dedup keys use a fresh UUID as the entity id.
func BuildBrowse(name models.EventName, beacon *models.BrowsePayload, opts BuildOptions) (*models.ConversionEvent, error) {
	if beacon == nil {
		return nil, fmt.Errorf("beacon: %w", trackingdomain.ErrMissingPayload)
	}

	event := newEvent(name, "event", uuid.NewString(), "", opts)

	event.UserData.Email = hashIfPresent(beacon.Email)

	if len(beacon.ContentIDs) > 0 || beacon.Value != "" {
		event.CustomData = &models.CustomData{
			Value:       parseMoney(beacon.Value),
			Currency:    beacon.Currency,
			ContentType: "product",
			ContentIDs:  beacon.ContentIDs,
		}
	}

	return event, nil
}

// newEvent assembles the kind-independent parts of a conversion event:
// timestamp, action source, dedup key, and client context passthrough.
func newEvent(name models.EventName, entityKind, entityID, createdAt string, opts BuildOptions) *models.ConversionEvent {
	eventID := opts.DedupKey
	if eventID == "" {
		eventID = DedupKey(entityKind, entityID, name, time.Now())
	}

	return &models.ConversionEvent{
		EventName:      name,
		EventTime:      eventTime(createdAt),
		ActionSource:   models.ActionSourceWebsite,
		EventSourceURL: opts.Client.SourceURL,
		EventID:        eventID,
		UserData: models.UserData{
			ClientIPAddress: opts.Client.IPAddress,
			ClientUserAgent: opts.Client.UserAgent,
			FBC:             opts.Client.FBC,
			FBP:             opts.Client.FBP,
		},
	}
}

// eventTime returns the upstream creation timestamp in whole epoch seconds,
// falling back to the current wall clock when absent or unparseable.
func eventTime(createdAt string) int64 {
	if createdAt != "" {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			return t.Unix()
		}
	}
	return time.Now().Unix()
}

// parseMoney parses a decimal-string amount. A malformed or absent price is
// 0, never an error — a bad price must not block event submission.
func parseMoney(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// commerceData aggregates line items into CustomData: content ids prefer
// the variant id, then the product id, then the line id (zero ids dropped);
// item counts default a missing quantity to 1.
func commerceData(items []models.LineItem, totalPrice, currency string) *models.CustomData {
	custom := &models.CustomData{
		Value:       parseMoney(totalPrice),
		Currency:    currency,
		ContentType: "product",
	}

	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		custom.NumItems += qty

		id := contentID(item)
		if id == "" {
			continue
		}
		custom.ContentIDs = append(custom.ContentIDs, id)
		custom.Contents = append(custom.Contents, models.Content{
			ID:        id,
			Quantity:  qty,
			ItemPrice: parseMoney(item.Price),
		})
	}

	return custom
}

func contentID(item models.LineItem) string {
	switch {
	case item.VariantID != 0:
		return strconv.FormatInt(item.VariantID, 10)
	case item.ProductID != 0:
		return strconv.FormatInt(item.ProductID, 10)
	case item.ID != 0:
		return strconv.FormatInt(item.ID, 10)
	default:
		return ""
	}
}

func applyCustomer(u *models.UserData, c *models.CustomerRef) {
	if c == nil {
		return
	}
	u.FirstName = hashIfPresent(c.FirstName)
	u.LastName = hashIfPresent(c.LastName)
	if c.ID != 0 {
		u.ExternalID = HashField(strconv.FormatInt(c.ID, 10))
	}
	applyAddress(u, c.DefaultAddress)
}

func applyAddress(u *models.UserData, a *models.Address) {
	if a == nil {
		return
	}
	u.City = hashIfPresent(a.City)
	u.State = hashIfPresent(a.Province)
	u.Zip = hashIfPresent(a.Zip)
	u.Country = hashIfPresent(a.Country)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func customerEmail(c *models.CustomerRef) string {
	if c == nil {
		return ""
	}
	return c.Email
}

func customerPhone(c *models.CustomerRef) string {
	if c == nil {
		return ""
	}
	return c.Phone
}
