package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/ghuser/signalbridge/pkg/httpx"
	"github.com/ghuser/signalbridge/pkg/logger"
	pkgvalidator "github.com/ghuser/signalbridge/pkg/validator"
	appsvcs "github.com/ghuser/signalbridge/services/tracking/application/services"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

// TrackRequest is the request body for POST /track, sent by the storefront beacon.
type TrackRequest struct {
	Shop       string   `json:"shop"        validate:"required,hostname"            example:"demo-store.myshopify.com"`
	Event      string   `json:"event"       validate:"required,oneof=page_view view_content add_to_cart" example:"view_content"`
	SourceURL  string   `json:"source_url"  validate:"omitempty,url"                example:"https://demo-store.myshopify.com/products/mug"`
	Email      string   `json:"email"       validate:"omitempty,email"              example:"buyer@example.com"`
	ContentIDs []string `json:"content_ids" validate:"omitempty,dive,min=1"         example:"111,222"`
	Value      string   `json:"value"       validate:"omitempty"                    example:"19.99"`
	Currency   string   `json:"currency"    validate:"omitempty,len=3"              example:"USD"`
	FBP        string   `json:"fbp"         validate:"omitempty"`
	FBC        string   `json:"fbc"         validate:"omitempty"`
} // @name TrackRequest

// TrackResponse is returned for an accepted beacon.
type TrackResponse struct {
	Accepted bool `json:"accepted" example:"true"`
} // @name TrackResponse

var browseEventNames = map[string]models.EventName{
	"page_view":    models.EventPageView,
	"view_content": models.EventViewContent,
	"add_to_cart":  models.EventAddToCart,
}

// TrackHandler handles POST /track beacon requests from storefronts.
type TrackHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewTrackHandler returns a TrackHandler backed by the given services.
func NewTrackHandler(svc *appsvcs.Services, log logger.Logger) *TrackHandler {
	return &TrackHandler{svc: svc, log: log}
}

// Execute accepts a browse event beacon.
//
//	@Summary		Track browse event
//	@Description	Accepts a storefront beacon (page_view, view_content, add_to_cart) and submits the matching conversion event
//	@Tags			tracking
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TrackRequest	true	"Browse event beacon"
//	@Success		202		{object}	TrackResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/track [post]
func (h *TrackHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[TrackRequest](w, r)
	if !ok {
		return
	}

	client := models.ClientContext{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		SourceURL: req.SourceURL,
		FBP:       req.FBP,
		FBC:       req.FBC,
	}
	beacon := &models.BrowsePayload{
		Email:      req.Email,
		ContentIDs: req.ContentIDs,
		Value:      req.Value,
		Currency:   req.Currency,
	}

	result, err := h.svc.Pipeline.HandleBrowse(r.Context(), req.Shop, browseEventNames[req.Event], beacon, client)
	switch {
	case err != nil:
		h.log.WarnContext(r.Context(), "beacon pipeline error", "shop", req.Shop, "event", req.Event, "error", err)
	case result.Skipped:
		h.log.InfoContext(r.Context(), "beacon skipped", "shop", req.Shop, "event", req.Event, "reason", result.Reason)
	case !result.Delivered:
		h.log.WarnContext(r.Context(), "beacon delivery failed", "shop", req.Shop, "event", req.Event, "reason", result.Reason)
	}

	// The storefront never needs the outcome; acknowledge and move on.
	httpx.JSON(w, http.StatusAccepted, TrackResponse{Accepted: true})
}

// clientIP extracts the visitor IP, preferring the X-Forwarded-For chain set
// by the load balancer over the socket peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
