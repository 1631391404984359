package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/employee-service/internal/domain"
)

const keyPrefix = "employee:"

// EmployeeCache stores single employee records in Redis.
type EmployeeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEmployeeCache returns nil when the client is missing or ttl is zero. A
// nil cache is valid and behaves as always empty.
func NewEmployeeCache(client *redis.Client, ttl time.Duration) *EmployeeCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &EmployeeCache{client: client, ttl: ttl}
}

func key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// Get returns the cached employee, or nil on a miss.
func (c *EmployeeCache) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var employee domain.Employee
	if err := employee.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Set writes the employee with the configured ttl.
func (c *EmployeeCache) Set(ctx context.Context, employee *domain.Employee) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, key(employee.ID), employee, c.ttl).Err()
}

// Delete evicts the employee.
func (c *EmployeeCache) Delete(ctx context.Context, id int64) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, key(id)).Err()
}
