// internal/orderstore/redis_repository.go
package orderstore

import (
	"context"
	"fmt"

	"rank-boost/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each order as a string key and keeps a sorted-set
// index scored by timestamp for enumeration.
type RedisRepository struct {
	client redis.Cmdable
	prefix string
}

func NewRedisRepository(client redis.Cmdable, prefix string) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) indexKey() string {
	return r.prefix + ":orders"
}

func (r *RedisRepository) orderKey(id string) string {
	return r.prefix + ":order:" + id
}

func (r *RedisRepository) Save(ctx context.Context, o *models.Order) error {
	data, err := encodeOrder(o)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.ID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.orderKey(o.ID), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(o.Timestamp), Member: o.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", o.ID, err)
	}
	return nil
}

func (r *RedisRepository) LoadAll(ctx context.Context) (*LoadResult, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index: %w", err)
	}

	result := &LoadResult{}
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.orderKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, v := range values {
		switch val := v.(type) {
		case nil:
			result.Corrupt = append(result.Corrupt, CorruptRecord{Key: keys[i], Err: fmt.Errorf("indexed order is missing")})
		case string:
			result.add(keys[i], []byte(val))
		default:
			result.Corrupt = append(result.Corrupt, CorruptRecord{Key: keys[i], Err: fmt.Errorf("unexpected value type %T", v)})
		}
	}
	return result, nil
}

// Close is a no-op; the client is owned by the caller.
func (r *RedisRepository) Close() error { return nil }
