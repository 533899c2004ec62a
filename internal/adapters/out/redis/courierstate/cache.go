package courierstate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
)

// RedisCourierStateCache implements ports.CourierStateCache.
//
// Key layout:
//
//	courier:{id}:state          hash of the runtime state
//	couriers:free               ids of every Free courier
//	couriers:zone:{zone}:free   ids of Free couriers per zone
type RedisCourierStateCache struct {
	rdb goredis.UniversalClient
}

var _ ports.CourierStateCache = (*RedisCourierStateCache)(nil)

func NewRedisCourierStateCache(rdb goredis.UniversalClient) *RedisCourierStateCache {
	return &RedisCourierStateCache{rdb: rdb}
}

func (c *RedisCourierStateCache) InitState(ctx context.Context, id kernel.UUID, state courier.RuntimeState) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := state.Status.Validate(); err != nil {
		return err
	}

	key := stateKey(id)
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldStatus, state.Status.String(),
			fieldCurrentLoad, state.CurrentLoad,
			fieldMaxLoad, state.MaxLoad,
			fieldRating, formatFloat(state.Rating),
			fieldSuccessfulDeliveries, state.SuccessfulDeliveries,
			fieldFailedDeliveries, state.FailedDeliveries,
			fieldWorkZone, state.WorkZone,
		)
		syncFreeSets(ctx, pipe, id, state.Status, state.WorkZone)
		return nil
	})
	return err
}

// GetState parses the hash leniently: absent numeric fields read as zero and
// an unknown status as Unavailable.
func (c *RedisCourierStateCache) GetState(ctx context.Context, id kernel.UUID) (courier.RuntimeState, bool, error) {
	fields, err := c.rdb.HGetAll(ctx, stateKey(id)).Result()
	if err != nil {
		return courier.RuntimeState{}, false, err
	}
	if len(fields) == 0 {
		return courier.RuntimeState{}, false, nil
	}

	status, err := courier.ParseStatus(fields[fieldStatus])
	if err != nil {
		status = courier.Unavailable
	}

	state := courier.RuntimeState{
		Status:               status,
		CurrentLoad:          atoi(fields[fieldCurrentLoad]),
		MaxLoad:              atoi(fields[fieldMaxLoad]),
		SuccessfulDeliveries: atoi(fields[fieldSuccessfulDeliveries]),
		FailedDeliveries:     atoi(fields[fieldFailedDeliveries]),
		WorkZone:             fields[fieldWorkZone],
	}
	if rating, parseErr := strconv.ParseFloat(fields[fieldRating], 64); parseErr == nil {
		state.Rating = rating
	}
	return state, true, nil
}

func (c *RedisCourierStateCache) SetStatus(ctx context.Context, id kernel.UUID, status courier.Status, zone string) error {
	if err := status.Validate(); err != nil {
		return err
	}

	key := stateKey(id)
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldStatus, status.String(), fieldWorkZone, zone)
		syncFreeSets(ctx, pipe, id, status, zone)
		return nil
	})
	return err
}

func (c *RedisCourierStateCache) UpdateLoad(ctx context.Context, id kernel.UUID, delta int) (int, error) {
	load, err := updateLoadScript.Run(ctx, c.rdb, []string{stateKey(id)}, delta).Int()
	if err != nil {
		return 0, err
	}
	return load, nil
}

func (c *RedisCourierStateCache) SetMaxLoad(ctx context.Context, id kernel.UUID, maxLoad int) error {
	if maxLoad < 0 {
		return errs.NewValueIsOutOfRangeError("max load", maxLoad, 0, math.MaxInt)
	}
	return c.rdb.HSet(ctx, stateKey(id), fieldMaxLoad, maxLoad).Err()
}

func (c *RedisCourierStateCache) RecordDelivery(ctx context.Context, id kernel.UUID, success bool) error {
	field := fieldFailedDeliveries
	if success {
		field = fieldSuccessfulDeliveries
	}
	return recordDeliveryScript.Run(ctx, c.rdb, []string{stateKey(id)}, field, courier.MaxRating).Err()
}

// MoveZone moves the id between zone free sets only if it is a member of
// the old one, so a courier that is not Free stays out of both.
func (c *RedisCourierStateCache) MoveZone(ctx context.Context, id kernel.UUID, from, to string) error {
	if from == to {
		return nil
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.SMove(ctx, zoneFreeKey(from), zoneFreeKey(to), id.String())
		pipe.HSet(ctx, stateKey(id), fieldWorkZone, to)
		return nil
	})
	return err
}

func (c *RedisCourierStateCache) GetFreeCouriers(ctx context.Context, zone string) ([]kernel.UUID, error) {
	return c.members(ctx, zoneFreeKey(zone))
}

func (c *RedisCourierStateCache) GetAllFree(ctx context.Context) ([]kernel.UUID, error) {
	return c.members(ctx, freeCouriersKey)
}

func (c *RedisCourierStateCache) Remove(ctx context.Context, id kernel.UUID, zone string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, stateKey(id))
		pipe.SRem(ctx, freeCouriersKey, id.String())
		pipe.SRem(ctx, zoneFreeKey(zone), id.String())
		return nil
	})
	return err
}

func (c *RedisCourierStateCache) members(ctx context.Context, key string) ([]kernel.UUID, error) {
	values, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, err
	}

	ids, err := kernel.UUIDsFromStrings(values)
	if err != nil {
		return nil, fmt.Errorf("set %s holds a malformed id: %w", key, err)
	}
	return ids, nil
}

func syncFreeSets(ctx context.Context, pipe goredis.Pipeliner, id kernel.UUID, status courier.Status, zone string) {
	member := id.String()
	if status == courier.Free {
		pipe.SAdd(ctx, freeCouriersKey, member)
		pipe.SAdd(ctx, zoneFreeKey(zone), member)
		return
	}
	pipe.SRem(ctx, freeCouriersKey, member)
	pipe.SRem(ctx, zoneFreeKey(zone), member)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
