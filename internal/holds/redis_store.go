package holds

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps holds in Redis so multiple instances share one hold map.
// Each showing gets a hash (seat -> holder) and a sorted set (seat -> expiry
// in unix milliseconds); a global set tracks which showings have holds. All
// mutations run as Lua scripts so check-and-set stays atomic.
type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{redis: redisClient}
}

func holdsKey(showingID uuid.UUID) string  { return "holds:seats:" + showingID.String() }
func expiryKey(showingID uuid.UUID) string { return "holds:expiry:" + showingID.String() }

const activeShowingsKey = "holds:active"

// Lua script for atomic hold placement - prevents race conditions
var scriptPlaceHold = redis.NewScript(`
-- KEYS[1] = holds hash, KEYS[2] = expiry zset, KEYS[3] = active showings set
-- ARGV[1] = seat_id, ARGV[2] = holder_id, ARGV[3] = now_ms, ARGV[4] = expires_ms,
-- ARGV[5] = showing_id, ARGV[6] = key_ttl_seconds

-- Drop expired holds first so a dead hold never blocks a live request
local expired = redis.call("ZRANGEBYSCORE", KEYS[2], "-inf", ARGV[3])
for i = 1, #expired do
    redis.call("HDEL", KEYS[1], expired[i])
    redis.call("ZREM", KEYS[2], expired[i])
end

local current = redis.call("HGET", KEYS[1], ARGV[1])
if current and current ~= ARGV[2] then
    -- First writer wins
    return 0
end

redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
redis.call("ZADD", KEYS[2], ARGV[4], ARGV[1])
redis.call("SADD", KEYS[3], ARGV[5])
redis.call("EXPIRE", KEYS[1], ARGV[6])
redis.call("EXPIRE", KEYS[2], ARGV[6])
return 1
`)

// Lua script for releasing one hold if owned by the given holder
var scriptReleaseHold = redis.NewScript(`
-- KEYS[1] = holds hash, KEYS[2] = expiry zset
-- ARGV[1] = seat_id, ARGV[2] = holder_id
local current = redis.call("HGET", KEYS[1], ARGV[1])
if current == ARGV[2] then
    redis.call("HDEL", KEYS[1], ARGV[1])
    redis.call("ZREM", KEYS[2], ARGV[1])
    return 1
end
return 0
`)

// Lua script for releasing every hold of one holder in a showing
var scriptReleaseAll = redis.NewScript(`
-- KEYS[1] = holds hash, KEYS[2] = expiry zset
-- ARGV[1] = holder_id
local entries = redis.call("HGETALL", KEYS[1])
local removed = 0
for i = 1, #entries, 2 do
    if entries[i + 1] == ARGV[1] then
        redis.call("HDEL", KEYS[1], entries[i])
        redis.call("ZREM", KEYS[2], entries[i])
        removed = removed + 1
    end
end
return removed
`)

// Lua script for pruning expired holds and listing the live ones
var scriptListHolds = redis.NewScript(`
-- KEYS[1] = holds hash, KEYS[2] = expiry zset, KEYS[3] = active showings set
-- ARGV[1] = now_ms, ARGV[2] = showing_id
local expired = redis.call("ZRANGEBYSCORE", KEYS[2], "-inf", ARGV[1])
for i = 1, #expired do
    redis.call("HDEL", KEYS[1], expired[i])
    redis.call("ZREM", KEYS[2], expired[i])
end

local out = {}
local entries = redis.call("ZRANGE", KEYS[2], 0, -1, "WITHSCORES")
for i = 1, #entries, 2 do
    local holder = redis.call("HGET", KEYS[1], entries[i])
    if holder then
        out[#out + 1] = entries[i]
        out[#out + 1] = holder
        out[#out + 1] = entries[i + 1]
    end
end

if #out == 0 then
    redis.call("SREM", KEYS[3], ARGV[2])
end
return out
`)

// Lua script for pruning expired holds only
var scriptPruneHolds = redis.NewScript(`
-- KEYS[1] = holds hash, KEYS[2] = expiry zset, KEYS[3] = active showings set
-- ARGV[1] = now_ms, ARGV[2] = showing_id
local expired = redis.call("ZRANGEBYSCORE", KEYS[2], "-inf", ARGV[1])
for i = 1, #expired do
    redis.call("HDEL", KEYS[1], expired[i])
    redis.call("ZREM", KEYS[2], expired[i])
end
if redis.call("ZCARD", KEYS[2]) == 0 then
    redis.call("SREM", KEYS[3], ARGV[2])
end
return #expired
`)

func (r *RedisStore) Place(ctx context.Context, showingID uuid.UUID, seatID, holderID string, ttl time.Duration) error {
	now := time.Now()
	keyTTL := int(ttl.Seconds()) + 60 // key-level safety net past the last hold

	result, err := scriptPlaceHold.Run(ctx, r.redis,
		[]string{holdsKey(showingID), expiryKey(showingID), activeShowingsKey},
		seatID, holderID,
		now.UnixMilli(), now.Add(ttl).UnixMilli(),
		showingID.String(), keyTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to place hold: %w", err)
	}

	if ok, _ := result.(int64); ok == 0 {
		return ErrAlreadyHeld
	}
	return nil
}

func (r *RedisStore) Release(ctx context.Context, showingID uuid.UUID, seatID, holderID string) (bool, error) {
	result, err := scriptReleaseHold.Run(ctx, r.redis,
		[]string{holdsKey(showingID), expiryKey(showingID)},
		seatID, holderID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to release hold: %w", err)
	}
	removed, _ := result.(int64)
	return removed == 1, nil
}

func (r *RedisStore) ReleaseAll(ctx context.Context, showingID uuid.UUID, holderID string) (int, error) {
	result, err := scriptReleaseAll.Run(ctx, r.redis,
		[]string{holdsKey(showingID), expiryKey(showingID)},
		holderID).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to release holds: %w", err)
	}
	removed, _ := result.(int64)
	return int(removed), nil
}

func (r *RedisStore) RemoveSeats(ctx context.Context, showingID uuid.UUID, seats []string) (int, error) {
	if len(seats) == 0 {
		return 0, nil
	}

	pipe := r.redis.TxPipeline()
	hdel := pipe.HDel(ctx, holdsKey(showingID), seats...)
	pipe.ZRem(ctx, expiryKey(showingID), seatsAsMembers(seats)...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to remove seat holds: %w", err)
	}
	return int(hdel.Val()), nil
}

func (r *RedisStore) List(ctx context.Context, showingID uuid.UUID) ([]Hold, error) {
	result, err := scriptListHolds.Run(ctx, r.redis,
		[]string{holdsKey(showingID), expiryKey(showingID), activeShowingsKey},
		time.Now().UnixMilli(), showingID.String()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list holds: %w", err)
	}

	raw, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result format from Lua script")
	}

	var live []Hold
	for i := 0; i+2 < len(raw); i += 3 {
		seat, _ := raw[i].(string)
		holder, _ := raw[i+1].(string)
		expiresStr, _ := raw[i+2].(string)
		expiresMs, err := strconv.ParseInt(expiresStr, 10, 64)
		if err != nil {
			continue
		}
		live = append(live, Hold{
			SeatID:    seat,
			HolderID:  holder,
			ExpiresAt: time.UnixMilli(expiresMs),
		})
	}
	return live, nil
}

func (r *RedisStore) Prune(ctx context.Context, showingID uuid.UUID) (bool, error) {
	result, err := scriptPruneHolds.Run(ctx, r.redis,
		[]string{holdsKey(showingID), expiryKey(showingID), activeShowingsKey},
		time.Now().UnixMilli(), showingID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to prune holds: %w", err)
	}
	removed, _ := result.(int64)
	return removed > 0, nil
}

func (r *RedisStore) ActiveShowings(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.redis.SMembers(ctx, activeShowingsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active showings: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PreloadScripts loads the Lua scripts into Redis so the hot path can use
// EVALSHA from the first request.
func (r *RedisStore) PreloadScripts(ctx context.Context) error {
	for _, script := range []*redis.Script{scriptPlaceHold, scriptReleaseHold, scriptReleaseAll, scriptListHolds, scriptPruneHolds} {
		if err := script.Load(ctx, r.redis).Err(); err != nil {
			return fmt.Errorf("failed to load hold script: %w", err)
		}
	}
	return nil
}

func seatsAsMembers(seats []string) []interface{} {
	members := make([]interface{}, len(seats))
	for i, seat := range seats {
		members[i] = seat
	}
	return members
}
