package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisQueueKey   = "brewandco:queue:jobs"
	redisDelayedKey = "brewandco:queue:delayed"
)

// RedisDriver is a durable queue: LPUSH/BRPOP on a list for immediate
// jobs and a sorted set scored by run time for delayed ones.
type RedisDriver struct {
	rdb *redis.Client
}

// NewRedisDriver creates the driver and starts promoting delayed jobs until
// ctx is cancelled. Pass the client from pkg/cache.
func NewRedisDriver(ctx context.Context, rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb}
	go d.promoteDelayed(ctx)
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks up to 5s for a job. A timeout yields (nil, nil).
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, 5*time.Second, redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}

func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	runAt := float64(time.Now().Add(delay).Unix())
	if err := d.rdb.ZAdd(context.Background(), redisDelayedKey, redis.Z{
		Score:  runAt,
		Member: string(payload),
	}).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

func (d *RedisDriver) promoteDelayed(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := strconv.FormatInt(time.Now().Unix(), 10)
		jobs, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{Min: "-inf", Max: now}).Result()
		if err != nil || len(jobs) == 0 {
			continue
		}

		pipe := d.rdb.TxPipeline()
		for _, job := range jobs {
			pipe.ZRem(ctx, redisDelayedKey, job)
			pipe.LPush(ctx, redisQueueKey, job)
		}
		_, _ = pipe.Exec(ctx)
	}
}
