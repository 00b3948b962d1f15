package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ghuser/signalbridge/pkg/database"
	trackingdomain "github.com/ghuser/signalbridge/services/tracking/domain"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
)

// ConnectionRepository implements repositories.ConnectionRepository against PostgreSQL.
type ConnectionRepository struct {
	db *database.Database
}

// NewConnectionRepository returns a ConnectionRepository backed by the given pool.
func NewConnectionRepository(db *database.Database) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Upsert inserts or replaces the connection record for conn.Shop.
func (r *ConnectionRepository) Upsert(ctx context.Context, conn *models.Connection) error {
	const q = `
		INSERT INTO connections (shop, pixel_id, access_token, test_event_code, credential_expires_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (shop) DO UPDATE SET
			pixel_id = EXCLUDED.pixel_id,
			access_token = EXCLUDED.access_token,
			test_event_code = EXCLUDED.test_event_code,
			credential_expires_at = EXCLUDED.credential_expires_at,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.DB().ExecContext(ctx, q,
		conn.Shop.String(),
		conn.PixelID,
		conn.AccessToken,
		conn.TestEventCode,
		conn.CredentialExpiresAt,
		conn.Active,
		conn.CreatedAt,
		conn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert connection: %w", err)
	}
	return nil
}

// GetByShop retrieves a connection by shop domain.
// Returns ErrConnectionNotFound when no record exists.
func (r *ConnectionRepository) GetByShop(ctx context.Context, shop models.ShopDomain) (*models.Connection, error) {
	const q = `
		SELECT shop, pixel_id, access_token, test_event_code, credential_expires_at, active, created_at, updated_at
		FROM connections WHERE shop = $1`

	conn, err := scanConnection(r.db.DB().QueryRowContext(ctx, q, shop.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trackingdomain.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("query connection: %w", err)
	}
	return conn, nil
}

// Delete removes the connection record for a shop.
func (r *ConnectionRepository) Delete(ctx context.Context, shop models.ShopDomain) error {
	if _, err := r.db.DB().ExecContext(ctx, `DELETE FROM connections WHERE shop = $1`, shop.String()); err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	return nil
}

// ListExpiring returns active connections whose credential expires before the cutoff.
func (r *ConnectionRepository) ListExpiring(ctx context.Context, before time.Time) ([]*models.Connection, error) {
	const q = `
		SELECT shop, pixel_id, access_token, test_event_code, credential_expires_at, active, created_at, updated_at
		FROM connections
		WHERE active AND credential_expires_at IS NOT NULL AND credential_expires_at < $1
		ORDER BY credential_expires_at`

	rows, err := r.db.DB().QueryContext(ctx, q, before)
	if err != nil {
		return nil, fmt.Errorf("query expiring connections: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var conns []*models.Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		conns = append(conns, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}
	return conns, nil
}

// Deactivate marks a connection inactive without deleting it.
func (r *ConnectionRepository) Deactivate(ctx context.Context, shop models.ShopDomain) error {
	res, err := r.db.DB().ExecContext(ctx,
		`UPDATE connections SET active = FALSE, updated_at = NOW() WHERE shop = $1`, shop.String())
	if err != nil {
		return fmt.Errorf("deactivate connection: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return trackingdomain.ErrConnectionNotFound
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanConnection(s scanner) (*models.Connection, error) {
	var (
		conn      models.Connection
		shop      string
		testCode  sql.NullString
		expiresAt sql.NullTime
	)
	if err := s.Scan(&shop, &conn.PixelID, &conn.AccessToken, &testCode, &expiresAt, &conn.Active, &conn.CreatedAt, &conn.UpdatedAt); err != nil {
		return nil, err
	}
	conn.Shop = models.ShopDomain(shop)
	if testCode.Valid {
		conn.TestEventCode = testCode.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		conn.CredentialExpiresAt = &t
	}
	return &conn, nil
}
