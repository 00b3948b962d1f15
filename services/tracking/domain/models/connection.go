package models

import "time"

// Connection is the per-shop link between the commerce platform and the ad
// platform: which pixel receives events and the credential used to submit
// them. Written by the OAuth/admin layer; the pipeline only reads it.
type Connection struct {
	Shop                ShopDomain
	PixelID             string
	AccessToken         string
	TestEventCode       string
	CredentialExpiresAt *time.Time
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewConnection constructs a valid, active Connection with current timestamps.
func NewConnection(shop ShopDomain, pixelID, accessToken string) (*Connection, error) {
	now := time.Now().UTC()
	return &Connection{
		Shop:        shop,
		PixelID:     pixelID,
		AccessToken: accessToken,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Usable reports whether the connection can receive events: it must be
// active, carry a destination pixel, and its credential must not have lapsed.
func (c *Connection) Usable(now time.Time) bool {
	if c == nil || !c.Active || c.PixelID == "" || c.AccessToken == "" {
		return false
	}
	if c.CredentialExpiresAt != nil && !c.CredentialExpiresAt.After(now) {
		return false
	}
	return true
}
