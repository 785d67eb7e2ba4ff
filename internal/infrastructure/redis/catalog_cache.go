package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-backend/internal/domain"

	"github.com/go-redis/redis/v8"
)

type RedisCatalogCache struct {
	client *redis.Client
}

func NewCatalogCache(client *redis.Client) *RedisCatalogCache {
	return &RedisCatalogCache{client: client}
}

// GetProduct returns nil without error on a cache miss.
func (r *RedisCatalogCache) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	key := fmt.Sprintf("product:%s", id)

	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(result), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RedisCatalogCache) SetProduct(ctx context.Context, product *domain.Product, ttl time.Duration) error {
	key := fmt.Sprintf("product:%s", product.ID)

	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *RedisCatalogCache) InvalidateProduct(ctx context.Context, id string) error {
	key := fmt.Sprintf("product:%s", id)
	return r.client.Del(ctx, key).Err()
}
