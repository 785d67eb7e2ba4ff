package redis

import (
	"context"
	"fmt"

	"marketplace-backend/internal/domain"

	"github.com/go-redis/redis/v8"
)

// ActivityCounter keeps running totals per activity type, one counter key per
// UTC day.
type ActivityCounter struct {
	client *redis.Client
}

func NewActivityCounter(client *redis.Client) *ActivityCounter {
	return &ActivityCounter{client: client}
}

func (r *ActivityCounter) Record(ctx context.Context, event *domain.ActivityEvent) error {
	key := fmt.Sprintf("activity:%s:%s", event.Type, event.Timestamp.UTC().Format("2006-01-02"))
	return r.client.Incr(ctx, key).Err()
}

func (r *ActivityCounter) CountForDay(ctx context.Context, activityType domain.ActivityType, day string) (int64, error) {
	key := fmt.Sprintf("activity:%s:%s", activityType, day)

	result, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return result, nil
}
