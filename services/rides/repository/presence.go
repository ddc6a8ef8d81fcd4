package repository

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/mmcloughlin/geohash"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/database"
)

// PresenceRepo tracks driver liveness and coarse location in Redis.
type PresenceRepo struct {
	redis *database.RedisClient
}

func NewPresenceRepository(redis *database.RedisClient) *PresenceRepo {
	return &PresenceRepo{redis: redis}
}

// Touch refreshes the driver's last-seen marker with a sliding TTL.
func (p *PresenceRepo) Touch(ctx context.Context, driverID int64) error {
	key := fmt.Sprintf(constants.KeyDriverLastSeen, driverID)
	value := time.Now().UTC().Format(time.RFC3339)
	return p.redis.Set(ctx, key, value, constants.PresenceTTLSeconds*time.Second)
}

// LastSeen returns the driver's last-seen time. A missing or expired
// key yields a NotFound error.
func (p *PresenceRepo) LastSeen(ctx context.Context, driverID int64) (time.Time, error) {
	key := fmt.Sprintf(constants.KeyDriverLastSeen, driverID)
	raw, err := p.redis.Get(ctx, key)
	if err != nil {
		if err == goredis.Nil {
			return time.Time{}, apperrors.NotFoundf("no presence for driver %d", driverID)
		}
		return time.Time{}, fmt.Errorf("failed to read presence: %w", err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt presence value %q: %w", raw, err)
	}
	return t, nil
}

// RecordLocation adds the driver to the area's geo set and stores the
// geohash cell for coarse lookups. Empty areas land in the default set.
func (p *PresenceRepo) RecordLocation(ctx context.Context, area string, driverID int64, lat, lng float64) error {
	if area == "" {
		area = "default"
	}
	geoKey := fmt.Sprintf(constants.KeyAreaDriverGeo, area)
	member := fmt.Sprintf("%d", driverID)
	if err := p.redis.GeoAdd(ctx, geoKey, lng, lat, member); err != nil {
		return fmt.Errorf("failed to record driver location: %w", err)
	}

	cell := geohash.EncodeWithPrecision(lat, lng, 7)
	hashKey := fmt.Sprintf(constants.KeyDriverGeohash, driverID)
	return p.redis.Set(ctx, hashKey, cell, constants.PresenceTTLSeconds*time.Second)
}
