package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/vmihailenco/msgpack/v5"
)

const cachedCustomerTimeToLive = 10 * time.Minute

// CustomerCacheRepository represents behavior of customer cache
type CustomerCacheRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	DeleteByID(context.Context, string) error
	Create(context.Context, *model.Customer) error
}

type redisCustomerCache struct {
	client *redis.Client
}

// NewRedisCustomerCache builds customer cache on top of redis, customers are encoded with msgpack
func NewRedisCustomerCache(client *redis.Client) CustomerCacheRepository {
	return &redisCustomerCache{client: client}
}

func (r *redisCustomerCache) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	res, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var c model.Customer
	if err := msgpack.Unmarshal(res, &c); err != nil {
		return nil, err
	}

	// msgpack keeps instant but not location
	c.DateOfBirth = c.DateOfBirth.UTC()
	return &c, nil
}

func (r *redisCustomerCache) DeleteByID(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return err
	}
	return nil
}

func (r *redisCustomerCache) Create(ctx context.Context, c *model.Customer) error {
	encoded, err := msgpack.Marshal(c)
	if err != nil {
		return err
	}

	if err := r.client.SetNX(ctx, r.key(c.ID), encoded, cachedCustomerTimeToLive).Err(); err != nil {
		return err
	}
	return nil
}

func (r *redisCustomerCache) key(id string) string {
	return fmt.Sprintf("customer:%s", id)
}

type noopCustomerCache struct{}

// NewNoopCustomerCache builds cache which never keeps anything, used when redis is not configured
func NewNoopCustomerCache() CustomerCacheRepository {
	return noopCustomerCache{}
}

func (noopCustomerCache) FindByID(context.Context, string) (*model.Customer, error) {
	return nil, nil
}

func (noopCustomerCache) DeleteByID(context.Context, string) error {
	return nil
}

func (noopCustomerCache) Create(context.Context, *model.Customer) error {
	return nil
}
