package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	trackingdomain "github.com/ghuser/signalbridge/services/tracking/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrConnectionNotFound", trackingdomain.ErrConnectionNotFound, http.StatusNotFound},
		{"ErrInvalidShopDomain", trackingdomain.ErrInvalidShopDomain, http.StatusUnprocessableEntity},
		{"ErrInvalidConnection", trackingdomain.ErrInvalidConnection, http.StatusUnprocessableEntity},
		{"ErrMissingPayload", trackingdomain.ErrMissingPayload, http.StatusBadRequest},
		{"ErrDeliveryRejected", trackingdomain.ErrDeliveryRejected, http.StatusBadGateway},
		{"wrapped ErrConnectionNotFound", fmt.Errorf("get connection: %w", trackingdomain.ErrConnectionNotFound), http.StatusNotFound},
		{"wrapped ErrInvalidShopDomain", fmt.Errorf("%w: bad suffix", trackingdomain.ErrInvalidShopDomain), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, trackingdomain.ErrConnectionNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, trackingdomain.ErrConnectionNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
