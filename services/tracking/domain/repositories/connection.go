package repositories

import (
	"context"
	"time"

	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

// ConnectionRepository is the persistence interface for per-shop connection
// records. The domain layer owns this interface; infrastructure implements it.
// The pipeline only reads; writes belong to the admin/OAuth surface.
type ConnectionRepository interface {
	// Upsert inserts or replaces the connection record for its shop.
	Upsert(ctx context.Context, conn *models.Connection) error

	// GetByShop retrieves the connection for a shop.
	// Returns ErrConnectionNotFound when no record exists.
	GetByShop(ctx context.Context, shop models.ShopDomain) (*models.Connection, error)

	// Delete removes the connection record for a shop.
	Delete(ctx context.Context, shop models.ShopDomain) error

	// ListExpiring returns active connections whose credential expires before the cutoff.
	ListExpiring(ctx context.Context, before time.Time) ([]*models.Connection, error)

	// Deactivate marks a connection inactive without deleting it.
	Deactivate(ctx context.Context, shop models.ShopDomain) error
}
