// Package locationcache keeps the latest position of every courier in Redis.
package locationcache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a position stays readable without a new update.
const DefaultTTL = 300 * time.Second

const (
	activeLocationsKey = "locations:active"

	fieldLatitude  = "latitude"
	fieldLongitude = "longitude"
	fieldAccuracy  = "accuracy"
	fieldTimestamp = "timestamp"
	fieldSpeed     = "speed"
	fieldHeading   = "heading"

	defaultAccuracy = 10.0
)

// RedisLocationCache implements ports.LocationCache with one hash per
// courier under location:{id} and the locations:active set.
type RedisLocationCache struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

var _ ports.LocationCache = (*RedisLocationCache)(nil)

// NewRedisLocationCache uses DefaultTTL when ttl is not positive.
func NewRedisLocationCache(rdb goredis.UniversalClient, ttl time.Duration) *RedisLocationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocationCache{rdb: rdb, ttl: ttl}
}

func locationKey(id kernel.UUID) string {
	return fmt.Sprintf("location:%s", id)
}

func (c *RedisLocationCache) Set(ctx context.Context, location tracking.CourierLocation) error {
	if err := location.Validate(); err != nil {
		return err
	}

	id := location.CourierID()
	key := locationKey(id)
	loc := location.Location()

	values := []any{
		fieldLatitude, formatFloat(loc.Latitude()),
		fieldLongitude, formatFloat(loc.Longitude()),
		fieldAccuracy, formatFloat(loc.Accuracy()),
		fieldTimestamp, loc.Timestamp().UTC().Format(time.RFC3339Nano),
	}
	if speed := loc.Speed(); speed != nil {
		values = append(values, fieldSpeed, formatFloat(*speed))
	}
	if heading := loc.Heading(); heading != nil {
		values = append(values, fieldHeading, formatFloat(*heading))
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values...)
		pipe.Expire(ctx, key, c.ttl)
		pipe.SAdd(ctx, activeLocationsKey, id.String())
		return nil
	})
	return err
}

func (c *RedisLocationCache) Get(ctx context.Context, courierID kernel.UUID) (tracking.CourierLocation, bool, error) {
	fields, err := c.rdb.HGetAll(ctx, locationKey(courierID)).Result()
	if err != nil {
		return tracking.CourierLocation{}, false, err
	}
	if len(fields) == 0 {
		return tracking.CourierLocation{}, false, nil
	}

	location, err := parse(courierID, fields)
	if err != nil {
		return tracking.CourierLocation{}, false, err
	}
	return location, true, nil
}

// GetMany reads all keys in one pipeline round trip.
func (c *RedisLocationCache) GetMany(ctx context.Context, courierIDs []kernel.UUID) ([]tracking.CourierLocation, error) {
	if len(courierIDs) == 0 {
		return make([]tracking.CourierLocation, 0), nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(courierIDs))
	_, err := c.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, id := range courierIDs {
			cmds[i] = pipe.HGetAll(ctx, locationKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	locations := make([]tracking.CourierLocation, 0, len(courierIDs))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		location, parseErr := parse(courierIDs[i], fields)
		if parseErr != nil {
			return nil, parseErr
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (c *RedisLocationCache) Delete(ctx context.Context, courierID kernel.UUID) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, locationKey(courierID))
		pipe.SRem(ctx, activeLocationsKey, courierID.String())
		return nil
	})
	return err
}

func (c *RedisLocationCache) ActiveCourierIDs(ctx context.Context) ([]kernel.UUID, error) {
	values, err := c.rdb.SMembers(ctx, activeLocationsKey).Result()
	if err != nil {
		return nil, err
	}
	return kernel.UUIDsFromStrings(values)
}

// PruneInactive removes active-set members whose location key has expired.
func (c *RedisLocationCache) PruneInactive(ctx context.Context) (int, error) {
	members, err := c.rdb.SMembers(ctx, activeLocationsKey).Result()
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}

	cmds := make([]*goredis.IntCmd, len(members))
	_, err = c.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, member := range members {
			cmds[i] = pipe.Exists(ctx, "location:"+member)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	stale := make([]any, 0)
	for i, cmd := range cmds {
		if cmd.Val() == 0 {
			stale = append(stale, members[i])
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	removed, err := c.rdb.SRem(ctx, activeLocationsKey, stale...).Result()
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func parse(courierID kernel.UUID, fields map[string]string) (tracking.CourierLocation, error) {
	latitude, err := strconv.ParseFloat(fields[fieldLatitude], 64)
	if err != nil {
		return tracking.CourierLocation{}, fmt.Errorf("location %s: latitude: %w", courierID, err)
	}
	longitude, err := strconv.ParseFloat(fields[fieldLongitude], 64)
	if err != nil {
		return tracking.CourierLocation{}, fmt.Errorf("location %s: longitude: %w", courierID, err)
	}
	accuracy, err := strconv.ParseFloat(fields[fieldAccuracy], 64)
	if err != nil {
		accuracy = defaultAccuracy
	}
	timestamp, err := time.Parse(time.RFC3339Nano, fields[fieldTimestamp])
	if err != nil {
		return tracking.CourierLocation{}, fmt.Errorf("location %s: timestamp: %w", courierID, err)
	}

	loc, err := kernel.LocationFromStored(latitude, longitude, accuracy, timestamp,
		optionalFloat(fields, fieldSpeed), optionalFloat(fields, fieldHeading))
	if err != nil {
		return tracking.CourierLocation{}, err
	}
	return tracking.RestoreCourierLocation(courierID, loc, timestamp)
}

func optionalFloat(fields map[string]string, name string) *float64 {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
