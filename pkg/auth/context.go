package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const shopKey contextKey = "shop"

// ErrShopNotFound is returned when no shop domain exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrShopNotFound = errors.New("shop not found in context")

// ShopFromCtx extracts the authenticated shop domain from the request context.
// Returns "" and ErrShopNotFound if no shop is set (unauthenticated request).
func ShopFromCtx(ctx context.Context) (string, error) {
	shop, ok := ctx.Value(shopKey).(string)
	if !ok || shop == "" {
		return "", ErrShopNotFound
	}
	return shop, nil
}

// WithShop returns a new context with the given shop domain attached.
// Set by RequireShop after validating the session and by the webhook
// middleware after verifying the delivery signature.
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopKey, shop)
}
