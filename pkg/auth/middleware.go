package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/signalbridge/pkg/httpx"
	"github.com/ghuser/signalbridge/pkg/logger"
)

const sessionName = "signalbridge_session"
const sessionShopKey = "shop"

// RequireShop is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the shop domain the external OAuth
// layer stored there, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a shop.
//
// After this middleware, handlers can safely call auth.ShopFromCtx(r.Context()).
func RequireShop(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			shop, ok := session.Values[sessionShopKey].(string)
			if !ok || shop == "" {
				log.WarnContext(r.Context(), "session missing shop")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			ctx := WithShop(r.Context(), shop)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
