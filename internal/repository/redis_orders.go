package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cinemor/booking-api/internal/domain"
)

// RedisOrderRepository keeps one append-only list of purchase records per
// user. Orders are never mutated or expired once written.
type RedisOrderRepository struct {
	rdb redis.UniversalClient
}

func NewRedisOrderRepository(rdb redis.UniversalClient) *RedisOrderRepository {
	return &RedisOrderRepository{rdb: rdb}
}

func orderHistoryKey(userKey string) string {
	return fmt.Sprintf("orders:%s", userKey)
}

func (r *RedisOrderRepository) Append(ctx context.Context, userKey string, order domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	return r.rdb.RPush(ctx, orderHistoryKey(userKey), data).Err()
}

func (r *RedisOrderRepository) ListByUser(ctx context.Context, userKey string) ([]domain.Order, error) {
	entries, err := r.rdb.LRange(ctx, orderHistoryKey(userKey), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(entries))

	for _, entry := range entries {
		var order domain.Order

		if err := json.Unmarshal([]byte(entry), &order); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order record: %w", err)
		}

		orders = append(orders, order)
	}

	return orders, nil
}
