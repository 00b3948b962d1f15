package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ghuser/signalbridge/pkg/auth"
	"github.com/ghuser/signalbridge/pkg/httpx"
	"github.com/ghuser/signalbridge/pkg/logger"
	appsvcs "github.com/ghuser/signalbridge/services/tracking/application/services"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

// WebhookAck is the body returned for every webhook delivery.
type WebhookAck struct {
	Received bool `json:"received" example:"true"`
} // @name WebhookAck

// WebhookHandler receives commerce platform webhook deliveries and hands
// them to the conversion pipeline.
//
// Failure isolation: once the HMAC middleware has admitted a delivery, this
// handler acknowledges it with 200 no matter what the pipeline does. A 5xx
// here would make the platform redeliver and eventually drop the webhook
// subscription, which costs far more signal than one lost event.
type WebhookHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewWebhookHandler returns a WebhookHandler backed by the given services.
func NewWebhookHandler(svc *appsvcs.Services, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, log: log}
}

// OrdersCreate handles the orders/create webhook topic.
//
//	@Summary		Order created webhook
//	@Description	Receives an orders/create delivery and submits a Purchase conversion event
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	WebhookAck
//	@Failure		401	{object}	ErrorResponse
//	@Router			/webhooks/orders/create [post]
func (h *WebhookHandler) OrdersCreate(w http.ResponseWriter, r *http.Request) {
	shop := h.shop(r)

	var order models.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		h.log.WarnContext(r.Context(), "order webhook decode failed", "shop", shop, "error", err)
		h.ack(w)
		return
	}

	result, err := h.svc.Pipeline.HandleOrderCreated(r.Context(), shop, &order, models.ClientContext{})
	h.logOutcome(r, "orders/create", shop, result, err)
	h.ack(w)
}

// CheckoutsCreate handles the checkouts/create webhook topic.
//
//	@Summary		Checkout created webhook
//	@Description	Receives a checkouts/create delivery and submits an InitiateCheckout conversion event
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	WebhookAck
//	@Failure		401	{object}	ErrorResponse
//	@Router			/webhooks/checkouts/create [post]
func (h *WebhookHandler) CheckoutsCreate(w http.ResponseWriter, r *http.Request) {
	shop := h.shop(r)

	var checkout models.CheckoutPayload
	if err := json.NewDecoder(r.Body).Decode(&checkout); err != nil {
		h.log.WarnContext(r.Context(), "checkout webhook decode failed", "shop", shop, "error", err)
		h.ack(w)
		return
	}

	result, err := h.svc.Pipeline.HandleCheckoutCreated(r.Context(), shop, &checkout, models.ClientContext{})
	h.logOutcome(r, "checkouts/create", shop, result, err)
	h.ack(w)
}

// CustomersCreate handles the customers/create webhook topic.
//
//	@Summary		Customer created webhook
//	@Description	Receives a customers/create delivery and submits a CompleteRegistration conversion event
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	WebhookAck
//	@Failure		401	{object}	ErrorResponse
//	@Router			/webhooks/customers/create [post]
func (h *WebhookHandler) CustomersCreate(w http.ResponseWriter, r *http.Request) {
	shop := h.shop(r)

	var customer models.CustomerPayload
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		h.log.WarnContext(r.Context(), "customer webhook decode failed", "shop", shop, "error", err)
		h.ack(w)
		return
	}

	result, err := h.svc.Pipeline.HandleCustomerCreated(r.Context(), shop, &customer, models.ClientContext{})
	h.logOutcome(r, "customers/create", shop, result, err)
	h.ack(w)
}

func (h *WebhookHandler) shop(r *http.Request) string {
	if shop, err := auth.ShopFromCtx(r.Context()); err == nil {
		return shop
	}
	return r.Header.Get(auth.HeaderWebhookShop)
}

func (h *WebhookHandler) ack(w http.ResponseWriter) {
	httpx.JSON(w, http.StatusOK, WebhookAck{Received: true})
}

func (h *WebhookHandler) logOutcome(r *http.Request, topic, shop string, result *appsvcs.Result, err error) {
	ctx := r.Context()
	switch {
	case err != nil:
		h.log.WarnContext(ctx, "webhook pipeline error", "topic", topic, "shop", shop, "error", err)
	case result.Skipped:
		h.log.InfoContext(ctx, "webhook skipped", "topic", topic, "shop", shop, "reason", result.Reason)
	case !result.Delivered:
		h.log.WarnContext(ctx, "webhook delivery failed", "topic", topic, "shop", shop, "reason", result.Reason)
	default:
		h.log.InfoContext(ctx, "webhook processed", "topic", topic, "shop", shop, "dedup_key", result.DedupKey)
	}
}
