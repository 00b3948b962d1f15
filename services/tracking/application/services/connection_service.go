package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/signalbridge/pkg/cache"
	trackingdomain "github.com/ghuser/signalbridge/services/tracking/domain"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
	"github.com/ghuser/signalbridge/services/tracking/domain/repositories"
)

// ConnectionService manages the pixel connection a shop has configured.
// Writes invalidate the Redis entry so the pipeline never delivers with
// stale credentials for longer than one cache round trip.
type ConnectionService struct {
	repo  repositories.ConnectionRepository
	cache *pkgcache.ConnectionCache
}

// NewConnectionService returns a ConnectionService wired with the given
// repository and cache. cache may be nil.
func NewConnectionService(repo repositories.ConnectionRepository, connCache *pkgcache.ConnectionCache) *ConnectionService {
	return &ConnectionService{repo: repo, cache: connCache}
}

// Upsert creates or replaces the connection for a shop.
func (s *ConnectionService) Upsert(ctx context.Context, shop, pixelID, accessToken, testEventCode string, credentialExpiresAt *time.Time) (*models.Connection, error) {
	domain, err := models.NewShopDomain(shop)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trackingdomain.ErrInvalidShopDomain, err)
	}
	if pixelID == "" || accessToken == "" {
		return nil, fmt.Errorf("%w: pixel_id and access_token are required", trackingdomain.ErrInvalidConnection)
	}

	conn, err := models.NewConnection(domain, pixelID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", trackingdomain.ErrInvalidConnection, err)
	}
	conn.TestEventCode = testEventCode
	conn.CredentialExpiresAt = credentialExpiresAt

	if err := s.repo.Upsert(ctx, conn); err != nil {
		return nil, fmt.Errorf("save connection: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), domain.String())
	}
	return conn, nil
}

// Get retrieves the connection for a shop using a read-through cache:
//  1. Check Redis first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *ConnectionService) Get(ctx context.Context, shop string) (*models.Connection, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, shop); err == nil {
			return connectionFromCached(cached), nil
		} else if !errors.Is(err, redis.Nil) {
			// Cache error; fall through to Postgres.
			_ = err
		}
	}

	conn, err := s.repo.GetByShop(ctx, models.ShopDomain(shop))
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), cachedFromConnection(conn))
		}()
	}
	return conn, nil
}

// Delete removes the connection for a shop and evicts its cache entry.
// Idempotent: deleting a shop with no connection is a no-op.
func (s *ConnectionService) Delete(ctx context.Context, shop string) error {
	if err := s.repo.Delete(ctx, models.ShopDomain(shop)); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), shop)
	}
	return nil
}
