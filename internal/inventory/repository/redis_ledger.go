package repository

import (
	"context"
	"fmt"
	"strconv"

	inverrors "seatsaga/internal/inventory/errors"

	"github.com/redis/go-redis/v9"
)

const DefaultLedgerKey = "seatsaga:inventory"

// Both scripts return -1 when the operation is refused and the new seat
// count otherwise.
var (
	reserveScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if not current then
    return -1
end
local quantity = tonumber(ARGV[2])
if tonumber(current) < quantity then
    return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], -quantity)
`)

	releaseScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
    return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], tonumber(ARGV[2]))
`)
)

type redisLedger struct {
	client *redis.Client
	key    string
}

// NewRedisLedger keeps every event as a field of one hash so a deployment
// with several ledger processes shares a single count.
func NewRedisLedger(client *redis.Client, key string) LedgerRepository {
	if key == "" {
		key = DefaultLedgerKey
	}
	return &redisLedger{client: client, key: key}
}

// Seed sets the count of every event that does not exist yet. Counts that
// survived a restart are kept.
func Seed(ctx context.Context, client *redis.Client, key string, seeds map[string]int) error {
	if key == "" {
		key = DefaultLedgerKey
	}
	pipe := client.Pipeline()
	for eventID, seats := range seeds {
		pipe.HSetNX(ctx, key, eventID, seats)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}
	return nil
}

func (l *redisLedger) Reserve(ctx context.Context, eventID string, quantity int) (int, error) {
	remaining, err := reserveScript.Run(ctx, l.client, []string{l.key}, eventID, quantity).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", inverrors.ErrUnavailable, err)
	}
	if remaining < 0 {
		return 0, fmt.Errorf("%w: %s cannot cover %d seats", inverrors.ErrInsufficientInventory, eventID, quantity)
	}
	return remaining, nil
}

func (l *redisLedger) Release(ctx context.Context, eventID string, quantity int) (int, error) {
	remaining, err := releaseScript.Run(ctx, l.client, []string{l.key}, eventID, quantity).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", inverrors.ErrUnavailable, err)
	}
	if remaining < 0 {
		return 0, fmt.Errorf("%w: %s", inverrors.ErrUnknownResource, eventID)
	}
	return remaining, nil
}

func (l *redisLedger) Reset(ctx context.Context, eventID string, seats int) error {
	if err := l.client.HSet(ctx, l.key, eventID, seats).Err(); err != nil {
		return fmt.Errorf("%w: %w", inverrors.ErrUnavailable, err)
	}
	return nil
}

func (l *redisLedger) Snapshot(ctx context.Context) (map[string]int, error) {
	raw, err := l.client.HGetAll(ctx, l.key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrUnavailable, err)
	}
	seats := make(map[string]int, len(raw))
	for eventID, value := range raw {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt seat count for %s: %q", eventID, value)
		}
		seats[eventID] = n
	}
	return seats, nil
}
