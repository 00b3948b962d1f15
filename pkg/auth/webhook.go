package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/ghuser/signalbridge/pkg/httpx"
	"github.com/ghuser/signalbridge/pkg/logger"
)

// Webhook headers set by the commerce platform on every delivery.
const (
	HeaderWebhookHMAC = "X-Shopify-Hmac-Sha256"
	HeaderWebhookShop = "X-Shopify-Shop-Domain"
)

// VerifyWebhookHMAC is a chi middleware that authenticates webhook deliveries.
// The platform signs the raw request body with the app's shared secret
// (HMAC-SHA256, base64). An invalid or missing signature is rejected with 401
// before any handler runs; the shop domain header is injected into context on
// success. The body is re-buffered so handlers can decode it normally.
func VerifyWebhookHMAC(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(HeaderWebhookHMAC)
			if signature == "" {
				log.WarnContext(r.Context(), "webhook missing signature header")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "missing webhook signature"})
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				log.WarnContext(r.Context(), "webhook body read failed", "error", err)
				httpx.JSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !ValidWebhookSignature(body, secret, signature) {
				log.WarnContext(r.Context(), "webhook signature mismatch",
					"shop", r.Header.Get(HeaderWebhookShop))
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid webhook signature"})
				return
			}

			ctx := r.Context()
			if shop := r.Header.Get(HeaderWebhookShop); shop != "" {
				ctx = WithShop(ctx, shop)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidWebhookSignature reports whether signature is the base64 HMAC-SHA256
// of body under secret. Constant-time comparison.
func ValidWebhookSignature(body []byte, secret, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
