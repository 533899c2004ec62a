package courierstate

import goredis "github.com/redis/go-redis/v9"

// updateLoadScript adds ARGV[1] to current_load, clamped to [0, max_load].
// A courier without hot state is left untouched and reported with load 0.
var updateLoadScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
local max = tonumber(redis.call('HGET', KEYS[1], 'max_load') or '0')
local load = tonumber(redis.call('HGET', KEYS[1], 'current_load') or '0') + tonumber(ARGV[1])
if load > max then
	load = max
end
if load < 0 then
	load = 0
end
redis.call('HSET', KEYS[1], 'current_load', load)
return load
`)

// recordDeliveryScript increments the counter named in ARGV[1] and rewrites
// rating as successful / total * ARGV[2].
var recordDeliveryScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
local ok = tonumber(redis.call('HGET', KEYS[1], 'successful_deliveries') or '0')
local failed = tonumber(redis.call('HGET', KEYS[1], 'failed_deliveries') or '0')
local rating = 0
if ok + failed > 0 then
	rating = ok / (ok + failed) * tonumber(ARGV[2])
end
redis.call('HSET', KEYS[1], 'rating', tostring(rating))
return 1
`)
