package cache

import (
	"context"
	"fmt"
	"strconv"
)

const statsKeyPrefix = "capi_stats"

// DeliveryStats maintains advisory per-shop submission counters in Redis.
// The worker increments them from conversion.submitted events; the pipeline
// never reads them. Counters are per event kind plus the last trace id for
// cross-referencing with the ad platform's logs.
type DeliveryStats struct {
	client *RedisClient
}

// NewDeliveryStats creates a DeliveryStats store backed by the given RedisClient.
func NewDeliveryStats(r *RedisClient) *DeliveryStats {
	return &DeliveryStats{client: r}
}

// RecordDelivered increments the delivered counter for one event kind and
// remembers the submission's trace id.
func (s *DeliveryStats) RecordDelivered(ctx context.Context, shop, eventName, traceID string, received int) error {
	pipe := s.client.Client().Pipeline()
	pipe.HIncrBy(ctx, s.key(shop), "delivered:"+eventName, int64(received))
	if traceID != "" {
		pipe.HSet(ctx, s.key(shop), "last_trace_id", traceID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("stats record: %w", err)
	}
	return nil
}

// Snapshot returns the raw counter hash for a shop. Empty map when no
// deliveries have been recorded.
func (s *DeliveryStats) Snapshot(ctx context.Context, shop string) (map[string]string, error) {
	vals, err := s.client.Client().HGetAll(ctx, s.key(shop)).Result()
	if err != nil {
		return nil, fmt.Errorf("stats snapshot: %w", err)
	}
	return vals, nil
}

// Delivered returns the delivered count for one event kind.
func (s *DeliveryStats) Delivered(ctx context.Context, shop, eventName string) (int64, error) {
	raw, err := s.client.Client().HGet(ctx, s.key(shop), "delivered:"+eventName).Result()
	if err != nil {
		return 0, fmt.Errorf("stats get: %w", err)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stats parse: %w", err)
	}
	return n, nil
}

// key builds the Redis key: "capi_stats:{shop}"
func (s *DeliveryStats) key(shop string) string {
	return fmt.Sprintf("%s:%s", statsKeyPrefix, shop)
}
