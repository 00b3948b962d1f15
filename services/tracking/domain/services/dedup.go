package services

import (
	"fmt"
	"time"

	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

// dedupPrefix scopes generated keys to this platform integration.
const dedupPrefix = "shopify"

// dedupSuffix distinguishes event kinds so one entity can trigger several
// kinds without key collision (e.g. checkout then purchase on one order).
var dedupSuffix = map[models.EventName]string{
	models.EventPurchase:             "purchase",
	models.EventInitiateCheckout:     "checkout",
	models.EventCompleteRegistration: "signup",
	models.EventAddToCart:            "atc",
	models.EventViewContent:          "vc",
	models.EventPageView:             "pv",
}

// DedupKey derives the deduplication key for one logical occurrence of one
// event kind on one upstream entity:
//
//	{platform}_{entityKind}_{entityID}_{eventSuffix}_{buildMillis}
//
// The timestamp component separates distinct event kinds on the same entity
// but deliberately does not protect against redelivery of the identical
// webhook: an at-least-once duplicate built in a different millisecond gets
// a fresh key. Callers needing exact retry dedup supply their own key via
// BuildOptions.
func DedupKey(entityKind, entityID string, name models.EventName, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s_%d", dedupPrefix, entityKind, entityID, dedupSuffix[name], at.UnixMilli())
}
