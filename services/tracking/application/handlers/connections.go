package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/signalbridge/pkg/auth"
	"github.com/ghuser/signalbridge/pkg/errhttp"
	"github.com/ghuser/signalbridge/pkg/httpx"
	pkgvalidator "github.com/ghuser/signalbridge/pkg/validator"
	appsvcs "github.com/ghuser/signalbridge/services/tracking/application/services"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

// UpsertConnectionRequest is the request body for PUT /connections.
type UpsertConnectionRequest struct {
	PixelID             string     `json:"pixel_id"              validate:"required,numeric" example:"123456789012345"`
	AccessToken         string     `json:"access_token"          validate:"required"         example:"EAAG..."`
	TestEventCode       string     `json:"test_event_code"       validate:"omitempty"        example:"TEST1234"`
	CredentialExpiresAt *time.Time `json:"credential_expires_at" validate:"omitempty"`
} // @name UpsertConnectionRequest

// ConnectionResponse describes a shop's pixel connection. The access token
// is never echoed back.
type ConnectionResponse struct {
	Shop                string     `json:"shop"                  example:"demo-store.myshopify.com"`
	PixelID             string     `json:"pixel_id"              example:"123456789012345"`
	TestEventCode       string     `json:"test_event_code,omitempty"`
	CredentialExpiresAt *time.Time `json:"credential_expires_at,omitempty"`
	Active              bool       `json:"active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
} // @name ConnectionResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"connection not found"`
} // @name ErrorResponse

// ConnectionHandler handles the authenticated connection admin endpoints.
type ConnectionHandler struct {
	svc *appsvcs.Services
}

// NewConnectionHandler returns a ConnectionHandler backed by the given services.
func NewConnectionHandler(svc *appsvcs.Services) *ConnectionHandler {
	return &ConnectionHandler{svc: svc}
}

// Upsert creates or replaces the session shop's pixel connection.
//
//	@Summary		Upsert connection
//	@Description	Creates or replaces the pixel connection for the authenticated shop
//	@Tags			connections
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpsertConnectionRequest	true	"Connection settings"
//	@Success		200		{object}	ConnectionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/connections [put]
func (h *ConnectionHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	shop, err := auth.ShopFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpsertConnectionRequest](w, r)
	if !ok {
		return
	}

	conn, err := h.svc.Connection.Upsert(r.Context(), shop, req.PixelID, req.AccessToken, req.TestEventCode, req.CredentialExpiresAt)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, connectionResponse(conn))
}

// Get returns the session shop's pixel connection.
//
//	@Summary		Get connection
//	@Description	Returns the pixel connection for the authenticated shop
//	@Tags			connections
//	@Produce		json
//	@Success		200	{object}	ConnectionResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/connections [get]
func (h *ConnectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop, err := auth.ShopFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	conn, err := h.svc.Connection.Get(r.Context(), shop)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, connectionResponse(conn))
}

// Delete removes the session shop's pixel connection.
//
//	@Summary		Delete connection
//	@Description	Removes the pixel connection for the authenticated shop
//	@Tags			connections
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Router			/connections [delete]
func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shop, err := auth.ShopFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}

	if err := h.svc.Connection.Delete(r.Context(), shop); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func connectionResponse(conn *models.Connection) ConnectionResponse {
	return ConnectionResponse{
		Shop:                conn.Shop.String(),
		PixelID:             conn.PixelID,
		TestEventCode:       conn.TestEventCode,
		CredentialExpiresAt: conn.CredentialExpiresAt,
		Active:              conn.Active,
		CreatedAt:           conn.CreatedAt,
		UpdatedAt:           conn.UpdatedAt,
	}
}
