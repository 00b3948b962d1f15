package models

import (
	"fmt"
	"strings"
)

// ShopDomain is a value object representing a valid myshopify shop domain.
// Stored lower-cased; used as the key for connection records.
type ShopDomain string

const shopDomainSuffix = ".myshopify.com"

// NewShopDomain normalizes and validates a shop domain.
func NewShopDomain(s string) (ShopDomain, error) {
	d := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(d, shopDomainSuffix) {
		return "", fmt.Errorf("shop domain must end with %s", shopDomainSuffix)
	}
	name := strings.TrimSuffix(d, shopDomainSuffix)
	if name == "" {
		return "", fmt.Errorf("shop domain must have a store name before %s", shopDomainSuffix)
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return "", fmt.Errorf("shop domain contains invalid character %q", r)
		}
	}
	return ShopDomain(d), nil
}

// String returns the underlying string value.
func (d ShopDomain) String() string {
	return string(d)
}
